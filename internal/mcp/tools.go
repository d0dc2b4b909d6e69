package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
	"github.com/alexanderramin/swimmenu/internal/generation"
	"github.com/alexanderramin/swimmenu/internal/repository"
)

// --- Tool definitions ---

var toolGenerateMenu = mcp.NewTool("generate_menu",
	mcp.WithDescription("Generate a swim training menu. The result is validated, timed from distance, circle and sets, trimmed to fit the requested duration and stored."),
	mcp.WithArray("loadLevels", mcp.Required(), mcp.Description("Load levels to combine (low, medium, high)"), mcp.WithStringEnumItems([]string{"low", "medium", "high"})),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Requested duration in minutes")),
	mcp.WithString("notes", mcp.Description("Free-form coaching notes, e.g. 'focus on turns'")),
	mcp.WithString("model", mcp.Required(), mcp.Description("Provider key"), mcp.Enum("openai", "google", "anthropic", "ollama", "bedrock")),
	mcp.WithString("credentials", mcp.Description("API key for the provider. Not needed for ollama or bedrock.")),
	mcp.WithBoolean("useRetrieval", mcp.Description("Add similar stored menus to the prompt")),
	mcp.WithString("retrievalCredentials", mcp.Description("API key for the embedding provider")),
)

var toolGetMenu = mcp.NewTool("get_menu",
	mcp.WithDescription("Fetch a stored menu by ID with its request and metadata."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Menu ID")),
)

var toolListMenus = mcp.NewTool("list_menus",
	mcp.WithDescription("List stored menus, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of menus. Defaults to 50.")),
)

var toolSearchMenus = mcp.NewTool("search_menus",
	mcp.WithDescription("Find stored menus similar to a request by embedding similarity, limited to menus near the requested duration."),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Requested duration in minutes")),
	mcp.WithArray("loadLevels", mcp.Description("Load levels (low, medium, high)"), mcp.WithStringEnumItems([]string{"low", "medium", "high"})),
	mcp.WithString("notes", mcp.Description("Coaching notes to match")),
	mcp.WithString("credentials", mcp.Description("API key for the embedding provider")),
	mcp.WithNumber("k", mcp.Description("Number of results")),
)

var toolExportMenu = mcp.NewTool("export_menu",
	mcp.WithDescription("Render a stored menu as json, yaml, csv, markdown or html. With upload the rendering is also written to the export store."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Menu ID")),
	mcp.WithString("format", mcp.Description("Output format. Defaults to markdown."), mcp.Enum("json", "yaml", "csv", "markdown", "html")),
	mcp.WithBoolean("upload", mcp.Description("Also write the export to the export store")),
)

// --- Request types ---

type getMenuRequest struct {
	ID string `json:"id"`
}

type listMenusRequest struct {
	Limit int `json:"limit,omitempty"`
}

type searchMenusRequest struct {
	Duration    int      `json:"duration"`
	LoadLevels  []string `json:"loadLevels,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Credentials string   `json:"credentials,omitempty"`
	K           int      `json:"k,omitempty"`
}

type exportMenuRequest struct {
	ID     string `json:"id"`
	Format string `json:"format,omitempty"`
	Upload bool   `json:"upload,omitempty"`
}

type exportMenuResponse struct {
	ID          string `json:"id"`
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
	Location    string `json:"location,omitempty"`
}

// --- Handlers ---

type handlers struct {
	deps Deps
	log  *slog.Logger
}

func (h *handlers) generateMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[app.GenerateInput](req)
	if err != nil {
		return errorResult(string(generation.CodeInvalidRequest), err.Error()), nil
	}
	genReq, err := in.Request()
	if err != nil {
		return h.generationError(err), nil
	}
	res, err := h.deps.Generator.GenerateMenu(ctx, genReq)
	if err != nil {
		return h.generationError(err), nil
	}
	return mcp.NewToolResultJSON(app.NewGenerateOutput(res))
}

func (h *handlers) getMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[getMenuRequest](req)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	if in.ID == "" {
		return errorResult("INVALID_REQUEST", "id is required"), nil
	}
	rec, err := h.deps.Menus.GetByID(ctx, in.ID)
	if err != nil {
		return h.storeError(err), nil
	}
	return mcp.NewToolResultJSON(rec)
}

func (h *handlers) listMenus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[listMenusRequest](req)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	if in.Limit < 0 {
		return errorResult("INVALID_REQUEST", "limit must be non-negative"), nil
	}
	recs, err := h.deps.Menus.List(ctx, in.Limit)
	if err != nil {
		return h.storeError(err), nil
	}
	return mcp.NewToolResultJSON(app.Summarize(recs))
}

func (h *handlers) searchMenus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[searchMenusRequest](req)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	levels, err := domain.ParseLoadLevels(in.LoadLevels)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	if in.Duration <= 0 {
		return errorResult("INVALID_REQUEST", domain.ErrInvalidDuration.Error()), nil
	}
	hits, err := h.deps.Search.Search(ctx, app.SearchRequest{
		LoadLevels:  levels,
		Duration:    in.Duration,
		Notes:       in.Notes,
		Credentials: in.Credentials,
		TopK:        in.K,
	})
	if errors.Is(err, app.ErrNoEmbeddingCredentials) {
		return errorResult(string(generation.CodeMissingCredentials), err.Error()), nil
	}
	if err != nil {
		h.log.Error("search error", "error", err)
		return errorResult(string(generation.CodeUpstream), err.Error()), nil
	}
	if hits == nil {
		hits = []domain.RetrievalHit{}
	}
	return mcp.NewToolResultJSON(hits)
}

func (h *handlers) exportMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[exportMenuRequest](req)
	if err != nil {
		return errorResult("INVALID_REQUEST", err.Error()), nil
	}
	format := export.FormatMarkdown
	if in.Format != "" {
		if format, err = export.ParseFormat(in.Format); err != nil {
			return errorResult("INVALID_REQUEST", err.Error()), nil
		}
	}
	res, err := h.deps.Exports.Export(ctx, in.ID, format, in.Upload)
	if err != nil {
		return h.storeError(err), nil
	}
	return mcp.NewToolResultJSON(exportMenuResponse{
		ID:          in.ID,
		Format:      string(format),
		ContentType: res.ContentType,
		Content:     string(res.Data),
		Location:    res.Location,
	})
}

func (h *handlers) generationError(err error) *mcp.CallToolResult {
	var ge *generation.Error
	if errors.As(err, &ge) {
		return errorResult(string(ge.Code), ge.Message)
	}
	h.log.Error("generation error", "error", err)
	return errorResult("INTERNAL", "an internal error occurred")
}

func (h *handlers) storeError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorResult("NOT_FOUND", "menu not found")
	case errors.Is(err, export.ErrUnknownFormat):
		return errorResult("INVALID_REQUEST", err.Error())
	}
	h.log.Error("store error", "error", err)
	return errorResult("INTERNAL", "an internal error occurred")
}

// errorResult builds a tool error whose text is {"error":{"code","message"}}.
func errorResult(code, message string) *mcp.CallToolResult {
	payload := map[string]any{"error": map[string]string{"code": code, "message": message}}
	b, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", code, message))
	}
	return mcp.NewToolResultError(string(b))
}

// decode unmarshals tool arguments into a typed request.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("unmarshal args: %w", err)
	}
	return out, nil
}
