package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/opsdeskhq/opsdesk/internal/api"
)

const overviewPath = "/api/it/overview"

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return errors.New("empty expression")
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// OverviewTile pairs a display label with a JMESPath expression into the
// overview aggregate.
type OverviewTile struct {
	Label string
	Expr  string
}

// DefaultOverviewTiles matches the aggregate shape the backend serves.
func DefaultOverviewTiles() []OverviewTile {
	return []OverviewTile{
		{Label: "Devices", Expr: "devices.total"},
		{Label: "Devices in use", Expr: "devices.inUse"},
		{Label: "Devices in repair", Expr: "devices.inRepair"},
		{Label: "Open tickets", Expr: "tickets.open"},
		{Label: "Urgent tickets", Expr: "tickets.urgent"},
	}
}

// OverviewValue is one evaluated tile ready for display.
type OverviewValue struct {
	Label string
	Value string
}

// OverviewServiceOptions groups dependencies for OverviewService.
type OverviewServiceOptions struct {
	Client    *api.Client       // Required: backend REST client
	Tiles     []OverviewTile    // Optional: defaults to DefaultOverviewTiles
	Evaluator JMESPathEvaluator // Optional: defaults to the library evaluator
	Logger    *slog.Logger
}

// OverviewService renders the IT overview aggregate into labelled tiles.
// The aggregate is deliberately loose: it decodes into a generic map and
// each tile extracts its value with a validated JMESPath expression.
type OverviewService struct {
	client *api.Client
	tiles  []OverviewTile
	jems   JMESPathEvaluator
	logger *slog.Logger
}

// NewOverviewService validates every tile expression up front so a broken
// tile configuration fails at startup, not mid-render.
func NewOverviewService(opts OverviewServiceOptions) (*OverviewService, error) {
	if opts.Client == nil {
		return nil, errors.New("api client is required")
	}

	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}

	tiles := opts.Tiles
	if len(tiles) == 0 {
		tiles = DefaultOverviewTiles()
	}
	for _, tile := range tiles {
		if err := jems.Validate(tile.Expr); err != nil {
			return nil, fmt.Errorf("overview tile %q: %w", tile.Label, err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OverviewService{
		client: opts.Client,
		tiles:  tiles,
		jems:   jems,
		logger: logger,
	}, nil
}

// Fetch retrieves the aggregate and evaluates every tile. An expression
// that matches nothing renders "-" rather than failing the whole overview.
func (s *OverviewService) Fetch(ctx context.Context) ([]OverviewValue, error) {
	doc, err := api.Get[map[string]any](ctx, s.client, overviewPath)
	if err != nil {
		return nil, fmt.Errorf("fetch overview: %w", err)
	}

	values := make([]OverviewValue, 0, len(s.tiles))
	for _, tile := range s.tiles {
		res, err := s.jems.Evaluate(tile.Expr, doc)
		if err != nil {
			s.logger.WarnContext(ctx, "[overview][fetch] tile evaluation failed",
				"label", tile.Label, "error", err)
			res = nil
		}
		values = append(values, OverviewValue{Label: tile.Label, Value: renderTileValue(res)})
	}
	return values, nil
}

// renderTileValue formats an extracted aggregate value for a table cell.
// JSON numbers arrive as float64; everything unrecognized falls back to
// the default formatting verb.
func renderTileValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return "-"
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case int:
		return strconv.Itoa(tv)
	default:
		return fmt.Sprintf("%v", tv)
	}
}
