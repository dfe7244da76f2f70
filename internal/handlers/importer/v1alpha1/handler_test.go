package v1alpha1_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/handlers/importer/v1alpha1"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/importer"
	importermock "github.com/KirkDiggler/creature-import/internal/orchestrators/importer/mock"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
	workflowmock "github.com/KirkDiggler/creature-import/internal/orchestrators/workflow/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	mockImporter *importermock.MockService
	mockWorkflow *workflowmock.MockService
	server       *grpc.Server
	conn         *grpc.ClientConn
	client       v1alpha1.ImportServiceClient
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockImporter = importermock.NewMockService(s.ctrl)
	s.mockWorkflow = workflowmock.NewMockService(s.ctrl)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		Importer: s.mockImporter,
		Workflow: s.mockWorkflow,
	})
	s.Require().NoError(err)

	listener := bufconn.Listen(1 << 20)
	s.server = grpc.NewServer()
	v1alpha1.RegisterImportServiceServer(s.server, handler)
	go func() {
		_ = s.server.Serve(listener)
	}()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = v1alpha1.NewImportServiceClient(s.conn)
}

func (s *HandlerTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(fields map[string]any) *structpb.Struct {
	in, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return in
}

func (s *HandlerTestSuite) decode(out *structpb.Struct, v any) {
	data, err := json.Marshal(out.AsMap())
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(data, v))
}

func (s *HandlerTestSuite) presentingSession() *entities.ResolutionSession {
	return &entities.ResolutionSession{
		ID:         "session_1",
		CreatureID: "creature_1",
		State:      entities.SessionStatePresenting,
		Queue:      []string{"mastery-2"},
		Current:    &entities.UnresolvedAbilityRef{ID: "mastery-1", Name: "Iron Grip", Kind: entities.AbilityKindMastery},
		ExpiresAt:  time.Unix(1_700_000_000, 0),
	}
}

func (s *HandlerTestSuite) TestNewHandlerValidatesConfig() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{Importer: s.mockImporter})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestImportCreature() {
	rec := entities.NewCreatureRecord("Ash Drake", entities.FormatEditorV2)
	rec.ID = "creature_1"

	s.mockImporter.EXPECT().
		Import(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *importer.ImportInput) (*importer.ImportOutput, error) {
			var payload map[string]any
			s.Require().NoError(json.Unmarshal(input.Payload, &payload))
			s.Equal("EDITOR_V2", payload["formatTag"])
			s.True(input.AutoAssign)
			s.True(input.StartSession)
			s.Empty(input.ExistingCreatureID)
			return &importer.ImportOutput{
				Creature: rec,
				Session:  &entities.ResolutionSession{ID: "session_1", CreatureID: "creature_1", State: entities.SessionStateIdle, Queue: []string{"a", "b"}},
			}, nil
		})

	out, err := s.client.ImportCreature(s.ctx, s.request(map[string]any{
		"payload":       map[string]any{"formatTag": "EDITOR_V2", "name": "Ash Drake"},
		"auto_assign":   true,
		"start_session": true,
	}))
	s.Require().NoError(err)

	var resp v1alpha1.ImportCreatureResponse
	s.decode(out, &resp)
	s.Equal("creature_1", resp.Creature.ID)
	s.Require().NotNil(resp.Session)
	s.Equal("session_1", resp.Session.ID)
	s.Equal(2, resp.Session.Queued)
}

func (s *HandlerTestSuite) TestImportCreatureFromJSONString() {
	s.mockImporter.EXPECT().
		Import(gomock.Any(), &importer.ImportInput{
			Payload:            []byte(`{"formatTag":"VTT_IMPORT"}`),
			ExistingCreatureID: "creature_9",
		}).
		Return(&importer.ImportOutput{Creature: &entities.CreatureRecord{ID: "creature_9"}, Reimported: true}, nil)

	out, err := s.client.ImportCreature(s.ctx, s.request(map[string]any{
		"payload_json":         `{"formatTag":"VTT_IMPORT"}`,
		"existing_creature_id": "creature_9",
	}))
	s.Require().NoError(err)

	var resp v1alpha1.ImportCreatureResponse
	s.decode(out, &resp)
	s.True(resp.Reimported)
}

func (s *HandlerTestSuite) TestImportCreatureErrors() {
	s.Run("missing payload", func() {
		_, err := s.client.ImportCreature(s.ctx, s.request(map[string]any{}))
		s.Require().Error(err)
		s.Equal(codes.InvalidArgument, status.Code(err))
	})

	s.Run("format validation keeps the field", func() {
		s.mockImporter.EXPECT().
			Import(gomock.Any(), gomock.Any()).
			Return(nil, errors.Wrap(errors.FormatValidation("editor", "SPLITTERMOND_CREATURE_EDITOR", ""), "failed to normalize payload"))

		_, err := s.client.ImportCreature(s.ctx, s.request(map[string]any{"payload_json": `{}`}))
		s.Require().Error(err)
		s.Equal(codes.InvalidArgument, status.Code(err))

		restored := errors.FromGRPCError(err)
		s.True(errors.IsFormatValidation(restored))
		s.Equal("editor", errors.FormatField(restored))
	})
}

func (s *HandlerTestSuite) TestPresentNext() {
	entry := entities.IndexEntry{Partition: "masteries", ID: "iron-grip", Name: "Iron Grip", Kind: entities.AbilityKindMastery, Skill: "melee", Level: 2}

	s.mockWorkflow.EXPECT().
		PresentNext(gomock.Any(), &workflow.PresentNextInput{SessionID: "session_1"}).
		Return(&workflow.PresentNextOutput{
			Session: s.presentingSession(),
			Presentation: &workflow.Presentation{
				Item:       *s.presentingSession().Current,
				Outcome:    resolver.OutcomeAmbiguous,
				Candidates: []entities.MatchCandidate{{Entry: entry, Score: 1, IsExact: true}},
				Suggested:  &entry,
				Remaining:  1,
			},
		}, nil)

	out, err := s.client.PresentNext(s.ctx, s.request(map[string]any{"session_id": "session_1"}))
	s.Require().NoError(err)

	var resp v1alpha1.SessionResponse
	s.decode(out, &resp)
	s.Equal("presenting", resp.Session.State)
	s.Equal("mastery-1", resp.Session.CurrentID)
	s.Require().NotNil(resp.Presentation)
	s.Equal("ambiguous", resp.Presentation.Outcome)
	s.Require().Len(resp.Presentation.Candidates, 1)
	s.Equal("masteries:iron-grip", resp.Presentation.Candidates[0].EntryID)
	s.True(resp.Presentation.Candidates[0].Exact)
	s.Equal("masteries:iron-grip", resp.Presentation.Suggested.EntryID)
	s.Equal(1, resp.Presentation.Remaining)
}

func (s *HandlerTestSuite) TestRequery() {
	ceiling := 2
	s.mockWorkflow.EXPECT().
		Requery(gomock.Any(), &workflow.RequeryInput{SessionID: "session_1", Skill: "blades", LevelCeiling: &ceiling}).
		Return(&workflow.RequeryOutput{
			Session:      s.presentingSession(),
			Presentation: &workflow.Presentation{Outcome: resolver.OutcomeNoMatch},
		}, nil)

	out, err := s.client.Requery(s.ctx, s.request(map[string]any{
		"session_id":    "session_1",
		"skill":         " blades ",
		"level_ceiling": 2,
	}))
	s.Require().NoError(err)

	var resp v1alpha1.SessionResponse
	s.decode(out, &resp)
	s.Equal("no_match", resp.Presentation.Outcome)
	s.Empty(resp.Presentation.Candidates)
}

func (s *HandlerTestSuite) TestDecide() {
	s.mockWorkflow.EXPECT().
		Decide(gomock.Any(), &workflow.DecideInput{
			SessionID: "session_1",
			ItemID:    "mastery-1",
			Decision:  workflow.DecisionAbort,
		}).
		Return(&workflow.DecideOutput{
			Session: &entities.ResolutionSession{ID: "session_1", State: entities.SessionStateAborted},
			Report: &workflow.Report{
				State:     entities.SessionStateAborted,
				Discarded: []entities.SessionItem{{RefID: "mastery-1", Outcome: entities.ItemOutcomeDiscarded}},
				Partial:   true,
			},
		}, nil)

	out, err := s.client.Decide(s.ctx, s.request(map[string]any{
		"session_id": "session_1",
		"item_id":    "mastery-1",
		"decision":   "ABORT",
	}))
	s.Require().NoError(err)

	var resp v1alpha1.SessionResponse
	s.decode(out, &resp)
	s.Nil(resp.Presentation)
	s.Require().NotNil(resp.Report)
	s.True(resp.Report.Partial)
	s.Require().Len(resp.Report.Discarded, 1)
	s.Equal("mastery-1", resp.Report.Discarded[0].RefID)
}

func (s *HandlerTestSuite) TestDecideMapsErrors() {
	s.mockWorkflow.EXPECT().
		Decide(gomock.Any(), gomock.Any()).
		Return(nil, errors.FailedPrecondition("session session_1 is aborted, no item to decide"))

	_, err := s.client.Decide(s.ctx, s.request(map[string]any{"session_id": "session_1", "decision": "skip"}))
	s.Require().Error(err)
	s.Equal(codes.FailedPrecondition, status.Code(err))
}

func (s *HandlerTestSuite) TestGetSession() {
	s.mockWorkflow.EXPECT().
		Resume(gomock.Any(), &workflow.ResumeInput{SessionID: "session_1"}).
		Return(nil, errors.NotFound("resolution session not found"))

	_, err := s.client.GetSession(s.ctx, s.request(map[string]any{"session_id": "session_1"}))
	s.Require().Error(err)
	s.Equal(codes.NotFound, status.Code(err))

	_, err = s.client.GetSession(s.ctx, s.request(map[string]any{}))
	s.Require().Error(err)
	s.Equal(codes.InvalidArgument, status.Code(err))
}
