package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"course-search-service/internal/domain"
	"course-search-service/internal/infra/elasticsearch"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/validator"
)

func (c *cli) newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the Elasticsearch request body for a search",
		Long: `Build the search request exactly as GET /api/search would and print the
Elasticsearch _search body. Nothing is sent over the network.`,
		Example: `  coursectl explain --q java --category Technology --max-price 300 --sort priceAsc
  coursectl explain --suggest --q ja`,
		Args: cobra.NoArgs,
		RunE: c.runExplain,
	}

	f := cmd.Flags()
	f.String("q", "", "free-text query")
	f.String("min-age", "", "youngest age the course must accept")
	f.String("max-age", "", "oldest age the course must accept")
	f.String("category", "", "exact category")
	f.String("type", "", "COURSE, ONE_TIME or CLUB")
	f.String("min-price", "", "lowest price, inclusive")
	f.String("max-price", "", "highest price, inclusive")
	f.String("start-date", "", "earliest next session, e.g. 2025-08-01T00:00:00")
	f.String("sort", "", "upcoming, priceAsc or priceDesc")
	f.Int("page", 0, "zero-based page")
	f.Int("size", 0, "page size")
	f.Bool("suggest", false, "explain the suggestion query for --q instead")

	return cmd
}

func (c *cli) runExplain(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()

	var search domain.IndexSearch
	if suggest, _ := f.GetBool("suggest"); suggest {
		q, _ := f.GetString("q")
		input, err := domain.PrepareSuggestionInput(q)
		if err != nil {
			return err
		}
		search = domain.IndexSearch{
			Query: domain.BuildSuggestionQuery(input),
			Size:  domain.SuggestionFetchSize,
		}
	} else {
		var req dto.SearchRequest
		req.Query, _ = f.GetString("q")
		req.MinAge, _ = f.GetString("min-age")
		req.MaxAge, _ = f.GetString("max-age")
		req.Category, _ = f.GetString("category")
		req.Type, _ = f.GetString("type")
		req.MinPrice, _ = f.GetString("min-price")
		req.MaxPrice, _ = f.GetString("max-price")
		req.StartDate, _ = f.GetString("start-date")
		req.Sort, _ = f.GetString("sort")
		req.Page, _ = f.GetInt("page")
		req.Size, _ = f.GetInt("size")

		if err := validator.New().Validate(&req); err != nil {
			return err
		}
		params, err := req.ToDomain()
		if err != nil {
			return err
		}
		params.Normalize()

		sort := domain.ResolveSort(params.Sort)
		search = domain.IndexSearch{
			Query: domain.BuildQuery(params),
			Page:  params.Page,
			Size:  params.Size,
			Sort:  &sort,
		}
	}

	body, err := elasticsearch.Explain(search)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.out, string(body))
	return err
}
