package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"restaurant-layout/internal/layout/models"
	"restaurant-layout/internal/layout/selection"
	"restaurant-layout/internal/layout/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Layout Handler
// ============================================================

const downloadName = "canvasJSON.json"

type LayoutHandler struct {
	workspaces *service.Manager
	storage    *service.SnapshotStorage
	validate   *validator.Validate
	log        *zap.Logger
}

func NewLayoutHandler(workspaces *service.Manager, storage *service.SnapshotStorage, log *zap.Logger) *LayoutHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LayoutHandler{
		workspaces: workspaces,
		storage:    storage,
		validate:   validator.New(),
		log:        log,
	}
}

type addShapeRequest struct {
	Kind string   `json:"kind" validate:"required"`
	X    *float64 `json:"x" validate:"required_with=Y"`
	Y    *float64 `json:"y" validate:"required_with=X"`
}

type pointerRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type formRequest struct {
	Label    string `json:"label" validate:"required,max=10"`
	Section  string `json:"section" validate:"required,max=10"`
	Occupied *bool  `json:"occupied" validate:"required"`
}

type selectRequest struct {
	ID string `json:"id" validate:"required"`
}

// decode reads a JSON body into dst and validates it.
func (h *LayoutHandler) decode(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return fmt.Errorf("%w: empty body", errBadRequest)
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
	return h.validate.Struct(dst)
}

func (h *LayoutHandler) workspace(c fiber.Ctx) (*service.Workspace, error) {
	return h.workspaces.Get(c.Params("id"))
}

// ============================================================
// Workspaces
// ============================================================

// CreateWorkspace opens an empty plan.
func (h *LayoutHandler) CreateWorkspace(c fiber.Ctx) error {
	ws := h.workspaces.Create()
	return c.Status(fiber.StatusCreated).JSON(ws.View())
}

func (h *LayoutHandler) GetWorkspace(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ws.View())
}

func (h *LayoutHandler) DeleteWorkspace(c fiber.Ctx) error {
	if err := h.workspaces.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================
// Shapes
// ============================================================

// AddShape handles the AddSquare / AddDiamond / AddCircle buttons.
func (h *LayoutHandler) AddShape(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	var req addShapeRequest
	if err := h.decode(c, &req); err != nil {
		return writeError(c, err)
	}

	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return writeError(c, err)
	}

	var at *models.Point
	if req.X != nil && req.Y != nil {
		at = &models.Point{X: *req.X, Y: *req.Y}
	}

	view, err := ws.Add(kind, at)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// ClearAll empties the plan.
func (h *LayoutHandler) ClearAll(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}
	ws.ClearAll()
	return c.JSON(ws.View())
}

// DeleteSelected removes the selected shape; without a selection it is a no-op.
func (h *LayoutHandler) DeleteSelected(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}
	removed := ws.DeleteSelected()
	return c.JSON(fiber.Map{"removed": removed, "workspace": ws.View()})
}

// ============================================================
// Selection & form
// ============================================================

// PointerDown reports a canvas click at (x, y).
func (h *LayoutHandler) PointerDown(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	var req pointerRequest
	if err := h.decode(c, &req); err != nil {
		return writeError(c, err)
	}

	id, hit := ws.PointerDown(*req.X, *req.Y)
	return c.JSON(fiber.Map{"hit": hit, "target": id, "form": ws.Form()})
}

// Select selects a shape by id, for shells that hit-test on their own.
func (h *LayoutHandler) Select(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	var req selectRequest
	if err := h.decode(c, &req); err != nil {
		return writeError(c, err)
	}

	selected := ws.Select(req.ID)
	return c.JSON(fiber.Map{"selected": selected, "form": ws.Form()})
}

func (h *LayoutHandler) Deselect(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}
	ws.Deselect()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LayoutHandler) GetForm(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ws.Form())
}

// SubmitForm applies the edit form to the selected shape.
func (h *LayoutHandler) SubmitForm(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	var req formRequest
	if err := h.decode(c, &req); err != nil {
		return writeError(c, err)
	}

	view, err := ws.SubmitForm(selection.Submission{
		Label:    req.Label,
		Section:  req.Section,
		Occupied: req.Occupied,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// ============================================================
// Snapshots
// ============================================================

// TakeSnapshot serializes the plan, keeps it for download and saves a copy
// under ?name= (a timestamped name by default).
func (h *LayoutHandler) TakeSnapshot(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	name := c.Query("name")
	if name == "" {
		name = defaultSnapshotName(time.Now())
	}

	blob, err := ws.Snapshot()
	if err != nil {
		return writeError(c, err)
	}
	if err := h.storage.Save(ws.ID, name, blob); err != nil {
		h.log.Error("save snapshot", zap.String("workspace_id", ws.ID), zap.String("name", name), zap.Error(err))
		return writeError(c, err)
	}
	ws.KeepSnapshot(blob)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name":     name,
		"snapshot": json.RawMessage(blob),
	})
}

// DownloadSnapshot sends the last snapshot as a .json attachment.
func (h *LayoutHandler) DownloadSnapshot(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	blob, err := ws.LastSnapshot()
	if err != nil {
		return writeError(c, err)
	}

	c.Attachment(downloadName)
	c.Type("json")
	return c.Send(blob)
}

// defaultSnapshotName names an unnamed take; the suffix keeps takes within
// the same second apart.
func defaultSnapshotName(now time.Time) string {
	return "snapshot-" + now.UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}

// Upload stages a snapshot file, as multipart field "file" or as the raw
// request body, replacing any file staged before.
func (h *LayoutHandler) Upload(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	data, err := readUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := ws.UploadFile(data); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"pending": true, "bytes": len(data)})
}

// Restore loads an uploaded snapshot. Without a body it restores the file
// staged by Upload.
func (h *LayoutHandler) Restore(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	if !isMultipart(c) && len(c.Body()) == 0 {
		n, err := ws.RestorePending()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"restored": n, "workspace": ws.View()})
	}

	data, err := readUpload(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.restore(c, ws, data)
}

func (h *LayoutHandler) ListSnapshots(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	list, err := h.storage.List(ws.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"snapshots": list})
}

// RestoreSaved restores a snapshot saved earlier by TakeSnapshot.
func (h *LayoutHandler) RestoreSaved(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	data, err := h.storage.Load(ws.ID, c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	return h.restore(c, ws, data)
}

func (h *LayoutHandler) restore(c fiber.Ctx, ws *service.Workspace, data []byte) error {
	n, err := ws.LoadFile(data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"restored": n, "workspace": ws.View()})
}

func isMultipart(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data")
}

func readUpload(c fiber.Ctx) ([]byte, error) {
	if !isMultipart(c) {
		if len(c.Body()) == 0 {
			return nil, fmt.Errorf("%w: body required", errBadRequest)
		}
		// The request buffer is reused once the handler returns.
		return append([]byte(nil), c.Body()...), nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file required in multipart/form-data", errBadRequest)
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// ============================================================
// Rendering
// ============================================================

// RenderSVG returns the current canvas frame.
func (h *LayoutHandler) RenderSVG(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return writeError(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(ws.Render())
}
