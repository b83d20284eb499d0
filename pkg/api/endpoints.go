// CLAUDE:SUMMARY Shared analyze/report/lookup/suggest/cục/tables endpoints used by both the HTTP router and MCP tools.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/dict"
	"github.com/hazyhaar/vietdanh/pkg/kit"
	"github.com/hazyhaar/vietdanh/pkg/report"
)

// ErrUnsupportedFormat is returned for an unknown report format.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Shared request/response types used by both HTTP and MCP transports.

type analyzeReq struct {
	Surname string `json:"surname"`
	Middle  string `json:"middle"`
	Given   string `json:"given"`
	Gender  string `json:"gender"`
}

type reportReq struct {
	analyzeReq
	Format string
}

type renderedReport struct {
	Format      string
	ContentType string
	Body        string
}

type lookupReq struct {
	Text string
}

type lookupResponse struct {
	Query    string         `json:"query"`
	Key      string         `json:"key"`
	Found    bool           `json:"found"`
	Hint     string         `json:"hint"`
	Syllable *dict.Syllable `json:"syllable,omitempty"`
}

type suggestReq struct {
	Element string
	Limit   int
}

type suggestResponse struct {
	Element   string          `json:"element"`
	Syllables []dict.Syllable `json:"syllables"`
}

type cucReq struct {
	Number int
}

type tablesResponse struct {
	Tables []dict.TableInfo `json:"tables"`
}

// Endpoints are the kit.Endpoints shared by HTTP and MCP.
type Endpoints struct {
	Analyze kit.Endpoint
	Report  kit.Endpoint
	Lookup  kit.Endpoint
	Suggest kit.Endpoint
	Cuc     kit.Endpoint
	Tables  kit.Endpoint
}

// NewEndpoints builds the endpoints backed by reg, each wrapped with logging.
func NewEndpoints(reg *dict.Registry, logger *slog.Logger) *Endpoints {
	a := cuc.New(reg)
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Logging(logger, name)(ep)
	}
	return &Endpoints{
		Analyze: wrap("analyze", analyzeEndpoint(a)),
		Report:  wrap("report", reportEndpoint(a)),
		Lookup:  wrap("lookup", lookupEndpoint(a)),
		Suggest: wrap("suggest", suggestEndpoint(a)),
		Cuc:     wrap("cuc", cucEndpoint(a)),
		Tables:  wrap("tables", tablesEndpoint(reg)),
	}
}

func analyzeEndpoint(a *cuc.Analyzer) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*analyzeReq)
		g, err := cuc.ParseGender(req.Gender)
		if err != nil {
			return nil, err
		}
		return a.Report(req.Surname, req.Middle, req.Given, g)
	}
}

func reportEndpoint(a *cuc.Analyzer) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*reportReq)
		format := strings.ToLower(strings.TrimSpace(req.Format))
		if format == "" {
			format = "markdown"
		}
		if format != "markdown" && format != "html" {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
		}
		g, err := cuc.ParseGender(req.Gender)
		if err != nil {
			return nil, err
		}
		rep, err := a.Report(req.Surname, req.Middle, req.Given, g)
		if err != nil {
			return nil, err
		}

		if format == "html" {
			body, err := report.HTML(rep)
			if err != nil {
				return nil, err
			}
			return &renderedReport{Format: format, ContentType: "text/html; charset=utf-8", Body: body}, nil
		}
		return &renderedReport{Format: format, ContentType: "text/markdown; charset=utf-8", Body: report.Markdown(rep)}, nil
	}
}

// lookupEndpoint resolves the last word of the query, the way the input
// hint follows what is being typed.
func lookupEndpoint(a *cuc.Analyzer) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*lookupReq)
		words := strings.Fields(req.Text)
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: empty syllable", cuc.ErrInvalidInput)
		}
		word := words[len(words)-1]
		s, found, err := a.LookupSyllable(word)
		if err != nil {
			return nil, err
		}
		resp := &lookupResponse{
			Query: word,
			Key:   dict.NormalizeLookup(word),
			Found: found,
			Hint:  report.Hint(s, found),
		}
		if found {
			resp.Syllable = &s
		}
		return resp, nil
	}
}

func suggestEndpoint(a *cuc.Analyzer) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*suggestReq)
		element := strings.TrimSpace(req.Element)
		if element == "" {
			return nil, fmt.Errorf("%w: element is required", cuc.ErrInvalidInput)
		}
		syllables, err := a.Suggest(element, req.Limit)
		if err != nil {
			return nil, err
		}
		if syllables == nil {
			syllables = []dict.Syllable{}
		}
		return &suggestResponse{Element: element, Syllables: syllables}, nil
	}
}

func cucEndpoint(a *cuc.Analyzer) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*cucReq)
		return a.Card(req.Number)
	}
}

func tablesEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return &tablesResponse{Tables: reg.ListTables()}, nil
	}
}
