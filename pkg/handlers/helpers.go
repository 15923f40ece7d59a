package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"boletohub/pkg/apperr"
	"boletohub/pkg/boleto"
	"boletohub/pkg/claims"
)

// boletoPayload is the wire shape of one boleto entry. Register
// payloads carry the file under "base64", edit payloads under
// "arquivo"; both are accepted. Vencimento comes as RFC 3339 or a
// plain yyyy-mm-dd date.
type boletoPayload struct {
	ID         string  `json:"id"`
	Base64     string  `json:"base64"`
	Arquivo    string  `json:"arquivo"`
	Status     string  `json:"status"`
	Descricao  string  `json:"descricao"`
	Vencimento string  `json:"vencimento"`
	Valor      float64 `json:"valor"`
}

func (p boletoPayload) toInput() (boleto.Input, error) {
	arquivo := p.Base64
	if arquivo == "" {
		arquivo = p.Arquivo
	}

	var vencimento time.Time
	if p.Vencimento != "" {
		var err error
		vencimento, err = time.Parse(time.RFC3339, p.Vencimento)
		if err != nil {
			vencimento, err = time.Parse("2006-01-02", p.Vencimento)
		}
		if err != nil {
			return boleto.Input{}, apperr.New(apperr.Validation, "vencimento inválido")
		}
	}

	return boleto.Input{
		ID:         p.ID,
		Arquivo:    arquivo,
		Status:     p.Status,
		Descricao:  p.Descricao,
		Vencimento: vencimento,
		Valor:      p.Valor,
	}, nil
}

func toInputs(payloads []boletoPayload) ([]boleto.Input, error) {
	inputs := make([]boleto.Input, 0, len(payloads))
	for _, p := range payloads {
		in, err := p.toInput()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid Content-Type", "")
		return false
	}

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json", "")
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) bool {
	resp, err := json.Marshal(data)
	if err != nil {
		logger.Error("failed to serialize JSON response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed json marshal", "")
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(resp); err != nil {
		logger.Error("failed to write response to client", "error", err)
		return false
	}
	return true
}

// writeError emits the uniform failure envelope: "error" carries the
// user-facing message, "message" the endpoint context.
func writeError(w http.ResponseWriter, status int, errMsg, context string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]string{"error": errMsg}
	if context != "" {
		body["message"] = context
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		return
	}
}

func writeAppError(w http.ResponseWriter, logger *slog.Logger, status int, err error, context string) {
	logger.Error(context, "error", err)
	writeError(w, status, apperr.MessageOf(err), context)
}

func getClaimsFromContext(w http.ResponseWriter, r *http.Request, c *claims.Claims) bool {
	val, ok := r.Context().Value(claims.TokenContextKey).(*claims.Claims)
	if !ok || val == nil || val.CPF == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return false
	}
	*c = *val
	return true
}
