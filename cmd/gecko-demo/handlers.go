package main

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gecko-http/gecko"
)

// noteHandlers exposes the sqlite store over the demo's API routes.
type noteHandlers struct {
	store *Store
}

func (h *noteHandlers) routes() *gecko.Router {
	r := gecko.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/:id", h.get)
	r.Delete("/:id", h.remove)
	return r
}

func (h *noteHandlers) list(c *gecko.Context) {
	notes, err := h.store.List()
	if err != nil {
		c.SendJSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	c.SendJSON(http.StatusOK, notes)
}

func (h *noteHandlers) get(c *gecko.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.SendJSON(http.StatusBadRequest, map[string]string{"error": "invalid note id"})
		return
	}

	note, err := h.store.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		c.SendJSON(http.StatusNotFound, map[string]string{"error": "note not found"})
		return
	}
	if err != nil {
		c.SendJSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	c.SendJSON(http.StatusOK, note)
}

func (h *noteHandlers) create(c *gecko.Context) {
	var in struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.BindJSON(&in); err != nil {
		c.SendJSON(http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if in.Title == "" {
		c.SendJSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	note, err := h.store.Create(in.Title, in.Body)
	if err != nil {
		c.SendJSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	c.SendJSON(http.StatusCreated, note)
}

func (h *noteHandlers) remove(c *gecko.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.SendJSON(http.StatusBadRequest, map[string]string{"error": "invalid note id"})
		return
	}

	existed, err := h.store.Delete(id)
	if err != nil {
		c.SendJSON(http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	if !existed {
		c.SendJSON(http.StatusNotFound, map[string]string{"error": "note not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func healthHandler(c *gecko.Context) {
	c.SendJSON(http.StatusOK, map[string]string{"status": "ok"})
}

func whoamiHandler(c *gecko.Context) {
	subject, _ := c.GetItem("auth_subject").(string)
	c.SendJSON(http.StatusOK, map[string]string{"subject": subject})
}
