// Package api - Thin HTTP layer over drawing sessions
// The API is ONLY responsible for: input ingestion, session orchestration,
// output serialization. The API NEVER performs markup or measurement logic.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"floorplan-markup/adapters/storage"
	"floorplan-markup/core/entity"
	"floorplan-markup/core/quantity"
	"floorplan-markup/core/session"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// Repository is the storage surface the server persists drawings through
type Repository interface {
	session.Repository
	List(ctx context.Context) ([]storage.DrawingInfo, error)
}

// Server is the API server
type Server struct {
	app      *fiber.App
	registry *sessionRegistry
	repo     Repository
	version  string
}

// Config carries server settings
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// NewServer creates the API server. The repository may be nil; save and
// load endpoints then report a persistence error.
func NewServer(cfg Config, repo Repository) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AppName:      "floorplan-markup",
	})
	app.Use(recover.New())

	s := &Server{
		app:      app,
		registry: newSessionRegistry(),
		repo:     repo,
		version:  cfg.Version,
	}
	s.registerRoutes()
	return s
}

// Listen serves until the listener fails or is shut down
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app, used by tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/version", s.handleVersion)

	s.app.Post("/drawings", s.handleCreateDrawing)
	s.app.Get("/drawings", s.handleListDrawings)
	s.app.Get("/drawings/:id", s.handleGetDrawing)
	s.app.Delete("/drawings/:id", s.handleCloseDrawing)

	s.app.Get("/drawings/:id/entities", s.handleListEntities)
	s.app.Post("/drawings/:id/entities", s.handleAddEntity)
	s.app.Patch("/drawings/:id/entities/:entityID", s.handlePatchEntity)
	s.app.Delete("/drawings/:id/entities/:entityID", s.handleRemoveEntity)

	s.app.Put("/drawings/:id/calibration", s.handleCalibrate)
	s.app.Put("/drawings/:id/purpose", s.handleSetPurpose)

	s.app.Post("/drawings/:id/undo", s.handleUndo)
	s.app.Post("/drawings/:id/redo", s.handleRedo)
	s.app.Post("/drawings/:id/keys", s.handleKey)

	s.app.Get("/drawings/:id/takeoff", s.handleTakeoff)
	s.app.Get("/drawings/:id/takeoff/pixel", s.handlePixelTakeoff)

	s.app.Post("/drawings/:id/save", s.handleSave)
	s.app.Post("/drawings/:id/load", s.handleLoad)
	s.app.Get("/drawings/:id/sync", s.handleSyncStatus)
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleVersion(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": s.version})
}

func (s *Server) handleCreateDrawing(c fiber.Ctx) error {
	var req CreateDrawingRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.Input("invalid JSON body"))
	}

	id, sess, err := s.registry.open(types.DesignPurpose(req.Purpose))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(drawingResponse(id, sess))
}

func (s *Server) handleListDrawings(c fiber.Ctx) error {
	resp := fiber.Map{"open": s.registry.ids()}
	if s.repo != nil {
		stored, err := s.repo.List(c.Context())
		if err != nil {
			return writeError(c, err)
		}
		resp["stored"] = stored
	}
	return c.JSON(resp)
}

func (s *Server) handleGetDrawing(c fiber.Ctx) error {
	id := c.Params("id")
	var resp DrawingResponse
	err := s.registry.with(id, func(sess *session.Session) error {
		resp = drawingResponse(id, sess)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) handleCloseDrawing(c fiber.Ctx) error {
	if err := s.registry.close(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListEntities(c fiber.Ctx) error {
	kind := c.Query("kind")
	var out []types.Entity
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		if kind != "" {
			out = sess.EntitiesOfKind(types.EntityKind(kind))
		} else {
			out = sess.Entities()
		}
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"entities": out})
}

func (s *Server) handleAddEntity(c fiber.Ctx) error {
	var req AddEntityRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.Input("invalid JSON body"))
	}
	attrs, err := decodeAttributes(req.Attributes)
	if err != nil {
		return writeError(c, err)
	}

	var placed types.Entity
	err = s.registry.with(c.Params("id"), func(sess *session.Session) error {
		var err error
		placed, err = sess.AddEntity(types.EntityKind(req.Kind), req.Geometry, attrs)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(placed)
}

func (s *Server) handlePatchEntity(c fiber.Ctx) error {
	var req PatchEntityRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.Input("invalid JSON body"))
	}
	attrs, err := decodeAttributes(req.Attributes)
	if err != nil {
		return writeError(c, err)
	}

	patch := entity.Patch{Attributes: attrs}
	if len(req.Geometry) > 0 {
		patch.Geometry = req.Geometry
	}

	var updated types.Entity
	err = s.registry.with(c.Params("id"), func(sess *session.Session) error {
		var err error
		updated, err = sess.UpdateEntity(types.EntityID(c.Params("entityID")), patch)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (s *Server) handleRemoveEntity(c fiber.Ctx) error {
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		return sess.RemoveEntity(types.EntityID(c.Params("entityID")))
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleCalibrate(c fiber.Ctx) error {
	var req CalibrateRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.Input("invalid JSON body"))
	}

	var cal *types.ScaleCalibration
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		if err := sess.Calibrate(req.PointA, req.PointB, req.RealDistance); err != nil {
			return err
		}
		cal = sess.Calibration()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cal)
}

func (s *Server) handleSetPurpose(c fiber.Ctx) error {
	var req SetPurposeRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.Input("invalid JSON body"))
	}

	id := c.Params("id")
	var resp DrawingResponse
	err := s.registry.with(id, func(sess *session.Session) error {
		if err := sess.SetPurpose(types.DesignPurpose(req.Purpose)); err != nil {
			return err
		}
		resp = drawingResponse(id, sess)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) handleUndo(c fiber.Ctx) error {
	return s.historyAction(c, func(sess *session.Session) error { return sess.Undo() })
}

func (s *Server) handleRedo(c fiber.Ctx) error {
	return s.historyAction(c, func(sess *session.Session) error { return sess.Redo() })
}

func (s *Server) handleKey(c fiber.Ctx) error {
	var req KeyRequest
	if err := c.Bind().Body(&req); err != nil {
		return writeError(c, errors.Input("invalid JSON body"))
	}
	return s.historyAction(c, func(sess *session.Session) error { return sess.HandleKey(req.Combo) })
}

// historyAction runs a history operation; empty-stack signals are
// reported as statuses, not HTTP errors, per the no-op contract.
func (s *Server) historyAction(c fiber.Ctx, op func(*session.Session) error) error {
	var resp HistoryResponse
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		opErr := op(sess)
		resp.CanUndo = sess.CanUndo()
		resp.CanRedo = sess.CanRedo()
		if opErr == nil {
			resp.Applied = true
			return nil
		}
		switch errors.TypeOf(opErr) {
		case errors.TypeNothingToUndo, errors.TypeNothingToRedo:
			resp.Status = string(errors.TypeOf(opErr))
			return nil
		default:
			return opErr
		}
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) handleTakeoff(c fiber.Ctx) error {
	var summary *quantity.Summary
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		var err error
		summary, err = sess.Takeoff()
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

func (s *Server) handlePixelTakeoff(c fiber.Ctx) error {
	var summary *quantity.PixelSummary
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		summary = sess.PixelTakeoff()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

func (s *Server) handleSave(c fiber.Ctx) error {
	if s.repo == nil {
		return writeError(c, errors.Persistence("no drawing storage configured", nil))
	}
	id := c.Params("id")
	var gen uint64
	err := s.registry.with(id, func(sess *session.Session) error {
		gen = sess.SaveTo(context.Background(), s.repo, id)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(SaveResponse{Generation: gen})
}

func (s *Server) handleLoad(c fiber.Ctx) error {
	if s.repo == nil {
		return writeError(c, errors.Persistence("no drawing storage configured", nil))
	}
	id := c.Params("id")

	err := s.registry.with(id, func(sess *session.Session) error {
		return sess.LoadFrom(c.Context(), s.repo, id)
	})
	if errors.IsType(err, errors.TypeNotFound) {
		// Not open yet: restore into a fresh session and adopt it
		doc, lerr := s.repo.Load(c.Context(), id)
		if lerr != nil {
			return writeError(c, lerr)
		}
		sess, serr := session.New(doc.DesignPurpose)
		if serr != nil {
			return writeError(c, serr)
		}
		if rerr := sess.Restore(doc); rerr != nil {
			return writeError(c, rerr)
		}
		s.registry.adopt(id, sess)
		return c.JSON(drawingResponse(id, sess))
	}
	if err != nil {
		return writeError(c, err)
	}

	var resp DrawingResponse
	_ = s.registry.with(id, func(sess *session.Session) error {
		resp = drawingResponse(id, sess)
		return nil
	})
	return c.JSON(resp)
}

func (s *Server) handleSyncStatus(c fiber.Ctx) error {
	var status session.SyncStatus
	err := s.registry.with(c.Params("id"), func(sess *session.Session) error {
		status = sess.SyncStatus()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status)
}

func drawingResponse(id string, sess *session.Session) DrawingResponse {
	return DrawingResponse{
		ID:          id,
		Purpose:     sess.Purpose(),
		Entities:    len(sess.Entities()),
		Calibration: sess.Calibration(),
		CanUndo:     sess.CanUndo(),
		CanRedo:     sess.CanRedo(),
	}
}

// writeError maps the domain taxonomy onto HTTP statuses
func writeError(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch errors.TypeOf(err) {
	case errors.TypeNotFound:
		status = fiber.StatusNotFound
	case errors.TypeInput, errors.TypeInvalidCalibration, errors.TypeInvalidGeometry:
		status = fiber.StatusBadRequest
	case errors.TypeDisallowedKind, errors.TypeUncalibrated:
		status = fiber.StatusConflict
	case errors.TypePersistence, errors.TypeInternal:
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"type":  string(errors.TypeOf(err)),
	})
}
