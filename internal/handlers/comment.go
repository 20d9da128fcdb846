package handlers

import (
	"net/http"

	"github.com/diewo77/go-supplies/internal/httpx"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/sirupsen/logrus"
)

type commentRequest struct {
	Text string `json:"text"`
}

type CommentHandler struct {
	comments *services.CommentService
	log      logrus.FieldLogger
}

func NewCommentHandler(comments *services.CommentService, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

func (h *CommentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body commentRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		badJSON(w, r, err)
		return
	}
	c, err := h.comments.Edit(r.Context(), id, body.Text)
	if err != nil {
		writeError(w, r, h.log, "CommentHandler.Edit", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.comments.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, "CommentHandler.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
