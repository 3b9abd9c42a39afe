package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	scanTool := mcp.NewTool("scan_barcode",
		mcp.WithDescription("Check whether a product barcode (GTIN) is subject to a French consumer recall"),
		mcp.WithString("barcode",
			mcp.Required(),
			mcp.Description("EAN/GTIN barcode digits"),
		),
	)
	s.mcp.AddTool(scanTool, s.handleScanBarcode)

	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Suggest catalog products matching a free-text query, best match first"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Product name or brand, at least 2 characters"),
		),
	)
	s.mcp.AddTool(searchTool, s.handleSearchProducts)

	recentTool := mcp.NewTool("recent_recalls",
		mcp.WithDescription("List recent recalls grouped into today, yesterday, last week and last month"),
		mcp.WithString("query",
			mcp.Description("Only keep recalls whose name, brand or reason contains this text"),
		),
	)
	s.mcp.AddTool(recentTool, s.handleRecentRecalls)

	favoritesTool := mcp.NewTool("check_favorites",
		mcp.WithDescription("Check every saved favorite against the recall feed and return the alerts"),
	)
	s.mcp.AddTool(favoritesTool, s.handleCheckFavorites)
}

func (s *Server) handleScanBarcode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	barcode := request.GetString("barcode", "")
	if barcode == "" {
		return mcp.NewToolResultError("barcode is required"), nil
	}

	result, err := s.recalls.Scan(ctx, barcode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan error: %v", err)), nil
	}
	return jsonResult(result)
}

func (s *Server) handleSearchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	products, err := s.recalls.SearchProducts(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}
	return jsonResult(products)
}

func (s *Server) handleRecentRecalls(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buckets, err := s.recalls.RecentRecalls(ctx, request.GetString("query", ""), s.now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recalls error: %v", err)), nil
	}
	return jsonResult(buckets)
}

func (s *Server) handleCheckFavorites(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alerts, err := s.watch.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("watch error: %v", err)), nil
	}
	return jsonResult(alerts)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
