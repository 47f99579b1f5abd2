package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/internal/pkg/notes"
	"github.com/group2dev/landmark-api/internal/pkg/usercontext"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

type NoteController struct {
	notes *notes.Service
}

func NewNoteController(svc *notes.Service) *NoteController {
	return &NoteController{notes: svc}
}

type NoteRequest struct {
	Content string `json:"content"`
}

func (nc *NoteController) HandleCreate(c *fiber.Ctx) error {
	landmarkID, err := parseID(c, "landmarkId")
	if err != nil {
		return handleError(c, err)
	}
	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, viewmodel.CodeInvalidRequest, "malformed request body")
	}

	note, err := nc.notes.Create(c.UserContext(), usercontext.GetUserID(c), landmarkID, req.Content)
	if err != nil {
		return handleError(c, err)
	}
	return respondCreated(c, viewmodel.FromNote(note))
}

// HandleList returns the caller's own notes for a landmark
func (nc *NoteController) HandleList(c *fiber.Ctx) error {
	landmarkID, err := parseID(c, "landmarkId")
	if err != nil {
		return handleError(c, err)
	}
	list, err := nc.notes.List(c.UserContext(), usercontext.GetUserID(c), landmarkID)
	if err != nil {
		return handleError(c, err)
	}
	out := make([]viewmodel.Note, 0, len(list))
	for i := range list {
		out = append(out, viewmodel.FromNote(&list[i]))
	}
	return respondOK(c, out)
}

func (nc *NoteController) HandleDelete(c *fiber.Ctx) error {
	noteID, err := parseID(c, "noteId")
	if err != nil {
		return handleError(c, err)
	}
	if err := nc.notes.Delete(c.UserContext(), usercontext.GetUserID(c), noteID); err != nil {
		return handleError(c, err)
	}
	return respondOK(c, nil)
}
