package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"salescoach/app/config"
	"salescoach/app/service/answer"
	"salescoach/app/service/discovery"
	"salescoach/app/service/session"
	"salescoach/app/util/errkind"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

type Server struct {
	cfg        *config.Config
	app        *fiber.App
	sessionSvc *session.Service
	answerSvc  *answer.Service
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:        do.MustInvoke[*config.Config](di),
		sessionSvc: do.MustInvoke[*session.Service](di),
		answerSvc:  do.MustInvoke[*answer.Service](di),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Post("/sessions", s.createSession)
	api.Get("/sessions/:id/summary", s.getSummary)
	api.Post("/sessions/:id/notes", s.addNote)
	api.Patch("/sessions/:id/notes/:noteId", s.editNote)
	api.Delete("/sessions/:id/notes/:noteId", s.deleteNote)
	api.Get("/sessions/:id/tips", s.getTips)
	api.Post("/sessions/:id/tips/:tipId/dismiss", s.dismissTip)
	api.Post("/sessions/:id/tags", s.applyTag)
	api.Post("/sessions/:id/end", s.endSession)
	api.Post("/ask", s.ask)
	api.Post("/knowledge", s.ingestKnowledge)

	s.app = app

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			slog.Warn("HTTP shutdown failed", "error", err)
		}
	}()

	slog.Info("HTTP server listening", "port", s.cfg.Server.Port)

	return s.app.Listen(":" + s.cfg.Server.Port)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.sessionSvc.Start(c.UserContext())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": sess.ID,
		"started_at": sess.StartedAt,
	})
}

type addNoteRequest struct {
	Text    string   `json:"text"`
	Speaker string   `json:"speaker"`
	Tags    []string `json:"tags"`
}

func (s *Server) addNote(c *fiber.Ctx) error {
	var req addNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	speaker := session.Speaker(req.Speaker)
	if speaker == "" {
		speaker = session.SpeakerCustomer
	}

	note, tips, err := s.sessionSvc.AddNote(c.UserContext(), c.Params("id"), req.Text, speaker, req.Tags)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"note": note,
		"tips": tips,
	})
}

type editNoteRequest struct {
	Text string `json:"text"`
}

func (s *Server) editNote(c *fiber.Ctx) error {
	var req editNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := s.sessionSvc.EditNote(c.Params("id"), c.Params("noteId"), req.Text); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteNote(c *fiber.Ctx) error {
	if err := s.sessionSvc.DeleteNote(c.Params("id"), c.Params("noteId")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getTips(c *fiber.Ctx) error {
	tips, err := s.sessionSvc.Tips(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"tips": tips})
}

func (s *Server) dismissTip(c *fiber.Ctx) error {
	if err := s.sessionSvc.DismissTip(c.Params("id"), c.Params("tipId")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type applyTagRequest struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
	Reset     bool   `json:"reset"`
}

func (s *Server) applyTag(c *fiber.Ctx) error {
	var req applyTagRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	dim := discovery.Dimension(req.Dimension)

	var err error
	if req.Reset {
		err = s.sessionSvc.ResetDiscovery(c.UserContext(), c.Params("id"), dim)
	} else {
		err = s.sessionSvc.ApplyTag(c.UserContext(), c.Params("id"), dim, req.Value)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getSummary(c *fiber.Ctx) error {
	summary, err := s.sessionSvc.Summary(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(summary)
}

func (s *Server) endSession(c *fiber.Ctx) error {
	final, err := s.sessionSvc.End(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(final)
}

type askRequest struct {
	Question  string `json:"question"`
	ProductID string `json:"product_id"`
}

func (s *Server) ask(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	result, err := s.answerSvc.Answer(c.UserContext(), req.Question, req.ProductID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(result)
}

type ingestRequest struct {
	Documents []answer.KnowledgeDocument `json:"documents"`
}

func (s *Server) ingestKnowledge(c *fiber.Ctx) error {
	var req ingestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if len(req.Documents) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no documents")
	}

	if err := s.answerSvc.IngestAll(c.UserContext(), req.Documents); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var oopsErr oops.OopsError
	if errors.As(err, &oopsErr) {
		switch oopsErr.Code() {
		case errkind.Validation:
			status = fiber.StatusBadRequest
		case errkind.NotFound:
			status = fiber.StatusNotFound
		case errkind.Upstream:
			status = fiber.StatusBadGateway
		case errkind.Timeout:
			status = fiber.StatusGatewayTimeout
		}
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
