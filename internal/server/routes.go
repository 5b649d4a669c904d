// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkmesh-dev/linkmesh/internal/snapshot"
	"github.com/linkmesh-dev/linkmesh/internal/store"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/v1/snapshot",
		Summary:     "Flattened node-list snapshot of the graph",
		Tags:        []string{"graph"},
	}, s.handleSnapshot)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-communities",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities",
		Summary:     "Connected communities with their hubs",
		Tags:        []string{"graph"},
	}, s.handleCommunities)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Store counts",
		Tags:        []string{"system"},
	}, s.handleStats)
}

type snapshotOutput struct {
	Body struct {
		Nodes []snapshot.NodeData `json:"nodes"`
	}
}

func (s *Server) handleSnapshot(ctx context.Context, _ *struct{}) (*snapshotOutput, error) {
	nodes, err := snapshot.Export(ctx, s.store)
	if err != nil {
		slog.Error("snapshot export failed", "error", err)
		return nil, huma.Error500InternalServerError("snapshot export failed")
	}

	out := &snapshotOutput{}
	out.Body.Nodes = nodes
	return out, nil
}

type communitiesInput struct {
	MinSize int `query:"min_size" minimum:"0" doc:"Only return communities larger than this"`
}

type communitiesOutput struct {
	Body struct {
		Communities []snapshot.Community `json:"communities"`
	}
}

func (s *Server) handleCommunities(ctx context.Context, in *communitiesInput) (*communitiesOutput, error) {
	nodes, err := snapshot.Export(ctx, s.store)
	if err != nil {
		slog.Error("snapshot export failed", "error", err)
		return nil, huma.Error500InternalServerError("snapshot export failed")
	}

	comms := snapshot.Detect(nodes)
	if in.MinSize > 0 {
		filtered := comms[:0]
		for _, c := range comms {
			if c.Size > in.MinSize {
				filtered = append(filtered, c)
			}
		}
		comms = filtered
	}

	out := &communitiesOutput{}
	out.Body.Communities = comms
	return out, nil
}

type statsOutput struct {
	Body store.Stats
}

func (s *Server) handleStats(ctx context.Context, _ *struct{}) (*statsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		slog.Error("reading stats failed", "error", err)
		return nil, huma.Error500InternalServerError("reading stats failed")
	}
	return &statsOutput{Body: stats}, nil
}
