package applicationapi

import (
	"bufio"
	"time"

	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/Abraxas-365/hireform/recruitment/application/applicationsrv"
	"github.com/gofiber/fiber/v2"
	"github.com/xeipuuv/gojsonschema"
)

// submitSchema accepts any JSON object; field values are coerced later
var submitSchema = gojsonschema.NewStringLoader(`{"type": "object"}`)

// Handlers provides HTTP handlers for submission operations
type Handlers struct {
	service   *applicationsrv.ApplicationService
	snapshots *applicationsrv.SnapshotService
}

// NewHandlers creates a new submission handlers instance
func NewHandlers(service *applicationsrv.ApplicationService, snapshots *applicationsrv.SnapshotService) *Handlers {
	return &Handlers{
		service:   service,
		snapshots: snapshots,
	}
}

// Health reports that the API is up
// GET /
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(application.HealthResponse{Status: application.StatusAPIRunning})
}

// Submit normalizes and stores a form submission
// POST /submit
func (h *Handlers) Submit(c *fiber.Ctx) error {
	body := c.Body()

	result, err := gojsonschema.Validate(submitSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return application.ErrInvalidRequest().WithDetail("validation_errors", reasons)
	}

	raw, err := application.ParseRawInput(body)
	if err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	submission, err := h.service.Submit(c.UserContext(), raw)
	if err != nil {
		return err
	}

	return c.JSON(application.SubmitResponse{
		Status: application.StatusSuccess,
		Data:   submission,
	})
}

// Latest returns the most recent submission or an empty object
// GET /latest
func (h *Handlers) Latest(c *fiber.Ctx) error {
	submission, err := h.service.Latest(c.UserContext())
	if err != nil {
		return err
	}
	if submission == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(submission)
}

// GetSubmission retrieves a stored submission by ID
// GET /submission/:id
func (h *Handlers) GetSubmission(c *fiber.Ctx) error {
	id := kernel.NewSubmissionID(c.Params("id"))
	if id.IsEmpty() {
		return application.ErrSubmissionNotFound().WithDetail("submission_id", "missing or empty")
	}

	submission, err := h.service.GetSubmission(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(submission)
}

// ExportCSV streams the whole store as CSV.
// Headers are sent before the first row, so a failure while rows are
// being copied truncates the body and is only logged.
// GET /export
func (h *Handlers) ExportCSV(c *fiber.Ctx) error {
	c.Attachment("submissions-" + time.Now().UTC().Format("20060102") + ".csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")

	ctx := c.UserContext()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := h.service.ExportCSV(ctx, w); err != nil {
			logx.Errorf("Failed to stream export: %v", err)
		}
		if err := w.Flush(); err != nil {
			logx.Warnf("Failed to flush export: %v", err)
		}
	})
	return nil
}

// CreateSnapshot copies the store to the configured file store
// POST /snapshots
func (h *Handlers) CreateSnapshot(c *fiber.Ctx) error {
	path, err := h.snapshots.Snapshot(c.UserContext())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(application.SnapshotResponse{
		Status: application.StatusSuccess,
		Path:   path,
	})
}

// RegisterRoutes registers the submission routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	app.Get("/", handlers.Health)
	app.Post("/submit", handlers.Submit)
	app.Get("/latest", handlers.Latest)
	app.Get("/submission/:id", handlers.GetSubmission)
	app.Get("/export", handlers.ExportCSV)
	app.Post("/snapshots", handlers.CreateSnapshot)
}
