package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// Register mounts the layout routes on app.
func Register(app *fiber.App, h *LayoutHandler, docsPath string) {
	app.Get("/docs", SwaggerUI)
	app.Get("/docs/openapi.yaml", SwaggerSpec(docsPath))

	ws := app.Group("/workspaces")
	ws.Post("/", h.CreateWorkspace)
	ws.Get("/:id", h.GetWorkspace)
	ws.Delete("/:id", h.DeleteWorkspace)

	ws.Post("/:id/shapes", h.AddShape)
	ws.Delete("/:id/shapes", h.ClearAll)
	ws.Delete("/:id/selected", h.DeleteSelected)

	ws.Post("/:id/pointer", h.PointerDown)
	ws.Put("/:id/selection", h.Select)
	ws.Delete("/:id/selection", h.Deselect)
	ws.Get("/:id/form", h.GetForm)
	ws.Put("/:id/form", h.SubmitForm)

	ws.Post("/:id/snapshot", h.TakeSnapshot)
	ws.Get("/:id/snapshot", h.DownloadSnapshot)
	ws.Put("/:id/upload", h.Upload)
	ws.Post("/:id/restore", h.Restore)
	ws.Get("/:id/snapshots", h.ListSnapshots)
	ws.Post("/:id/snapshots/:name/restore", h.RestoreSaved)

	ws.Get("/:id/svg", h.RenderSVG)
}
