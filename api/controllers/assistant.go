package controllers

import (
	"net/http"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/api/validators"
	"github.com/raditmaulana/bengkelhub-backend/internal/assistant"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type assistantChatRequest struct {
	History []assistant.Turn `json:"history" validate:"dive"`
	Text    string           `json:"text" validate:"required"`
}

type assistantChatResponse struct {
	Reply string `json:"reply"`
}

// AssistantChat proxies the side-panel chat. Failures inside the assistant
// degrade to a fixed fallback reply; this endpoint never errors on them.
func AssistantChat(svc assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assistant service unavailable"))
			return
		}

		var req assistantChatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reply := svc.Reply(r.Context(), req.History, req.Text)
		responses.WriteSuccess(w, assistantChatResponse{Reply: reply})
	}
}
