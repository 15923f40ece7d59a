package handlers

import (
	"net/http"

	"boletohub/pkg/apperr"
	"boletohub/pkg/claims"
)

type uploadForm struct {
	UserID  string `json:"userId"`
	Arquivo string `json:"arquivoBase64"`
}

// UploadBoleto attaches one boleto to the token subject's own user
// record, identified by its id.
func (h *Handler) UploadBoleto(w http.ResponseWriter, r *http.Request) {
	var tokenClaims claims.Claims
	if ok := getClaimsFromContext(w, r, &tokenClaims); !ok {
		return
	}

	var req uploadForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	if req.UserID == "" || req.Arquivo == "" {
		writeError(w, http.StatusBadRequest, "userId e arquivoBase64 são obrigatórios", "Erro ao enviar boleto")
		return
	}

	if err := h.Service.UploadBoleto(r.Context(), tokenClaims.CPF, req.UserID, req.Arquivo); err != nil {
		writeAppError(w, h.Logger, apperr.Status(err), err, "Erro ao enviar boleto")
		return
	}

	body := map[string]string{"message": "Boleto enviado com sucesso!"}
	if ok := writeJSON(w, h.Logger, http.StatusCreated, body); ok {
		h.Logger.Info("upload boleto", "user", req.UserID)
	}
}
