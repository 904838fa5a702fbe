package interfaces

//go:generate moq -out mocks/mocks.go -pkg mocks . AnalyticsClient Dashboard Renderer

import (
	"context"
	"io"

	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// Dashboard serves panel and page views to the HTTP and CLI layers
type Dashboard interface {
	Catalog() *model.Catalog
	LoadPanel(ctx context.Context, id types.PanelID) (*model.PanelView, error)
	LoadPage(ctx context.Context, id types.PageID) (*model.PageView, error)
	LoadTable(ctx context.Context, id types.PanelID, page, pageSize int) (*model.PanelView, error)
	RenderPanel(ctx context.Context, id types.PanelID, w io.Writer) error
	PanelState(ctx context.Context, id types.PanelID) (*model.PanelState, error)
	PanelStates(ctx context.Context) (*model.StatesOverview, error)
	Prefetch(ctx context.Context) error
}

// Renderer draws a panel view as an image
type Renderer interface {
	Render(w io.Writer, view *model.PanelView) error
	ContentType() string
}
