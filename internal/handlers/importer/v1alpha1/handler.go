// Package v1alpha1 handles the creature import gRPC service
package v1alpha1

import (
	"context"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/importer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
)

// HandlerConfig holds dependencies for the import handler
type HandlerConfig struct {
	Importer importer.Service
	Workflow workflow.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.Importer == nil {
		return errors.InvalidArgument("importer service is required")
	}
	if c.Workflow == nil {
		return errors.InvalidArgument("workflow service is required")
	}
	return nil
}

// Handler implements ImportServiceServer
type Handler struct {
	importer importer.Service
	workflow workflow.Service
}

var _ ImportServiceServer = (*Handler)(nil)

// NewHandler creates a new import handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		importer: cfg.Importer,
		workflow: cfg.Workflow,
	}, nil
}

// ImportCreature normalizes and stores a payload
func (h *Handler) ImportCreature(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ImportCreatureRequest
	if err := Decode(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	payload := []byte(req.Payload)
	if len(payload) == 0 || string(payload) == "null" {
		payload = []byte(req.PayloadJSON)
	}
	if len(payload) == 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgument("payload or payload_json is required"))
	}

	out, err := h.importer.Import(ctx, &importer.ImportInput{
		Payload:            payload,
		ExistingCreatureID: req.ExistingCreatureID,
		AutoAssign:         req.AutoAssign,
		StartSession:       req.StartSession,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return encode(&ImportCreatureResponse{
		Creature:     out.Creature,
		AutoAssigned: out.AutoAssigned,
		Session:      toSessionView(out.Session),
		Reimported:   out.Reimported,
	})
}

// PresentNext presents the next item of a session
func (h *Handler) PresentNext(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SessionRequest
	if err := Decode(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.workflow.PresentNext(ctx, &workflow.PresentNextInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return encode(&SessionResponse{
		Session:      toSessionView(out.Session),
		Presentation: toPresentationView(out.Presentation),
	})
}

// Requery changes the search filter of the presented item
func (h *Handler) Requery(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req RequeryRequest
	if err := Decode(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.workflow.Requery(ctx, &workflow.RequeryInput{
		SessionID:    req.SessionID,
		Skill:        entities.SkillKey(strings.TrimSpace(req.Skill)),
		Group:        strings.TrimSpace(req.Group),
		LevelCeiling: req.LevelCeiling,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return encode(&SessionResponse{
		Session:      toSessionView(out.Session),
		Presentation: toPresentationView(out.Presentation),
	})
}

// Decide answers the presented item
func (h *Handler) Decide(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DecideRequest
	if err := Decode(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.workflow.Decide(ctx, &workflow.DecideInput{
		SessionID: req.SessionID,
		ItemID:    req.ItemID,
		Decision:  workflow.Decision(strings.ToLower(strings.TrimSpace(req.Decision))),
		EntryID:   req.EntryID,
		Skill:     entities.SkillKey(req.Skill),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return encode(&SessionResponse{
		Session:      toSessionView(out.Session),
		Presentation: toPresentationView(out.Presentation),
		Report:       toReportView(out.Report),
	})
}

// GetSession resumes a session, returning the presented item if any
func (h *Handler) GetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SessionRequest
	if err := Decode(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.workflow.Resume(ctx, &workflow.ResumeInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return encode(&SessionResponse{
		Session:      toSessionView(out.Session),
		Presentation: toPresentationView(out.Presentation),
		Report:       toReportView(out.Report),
	})
}

func encode(v any) (*structpb.Struct, error) {
	out, err := Encode(v)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}
