package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"boletohub/pkg/apperr"
	"boletohub/pkg/claims"
	"boletohub/pkg/user"
)

type Handler struct {
	Service user.ServiceInterface
	Logger  *slog.Logger
}

func NewHandler(service user.ServiceInterface, logger *slog.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  logger,
	}
}

type loginForm struct {
	CPF   string `json:"cpf"`
	Senha string `json:"senha"`
}

// Register accepts the registration form (multipart or urlencoded).
// The optional boletos field is a JSON-encoded array of entries.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		writeError(w, http.StatusBadRequest, "formulário inválido", "Erro ao registrar usuário")
		return
	}

	in := user.RegisterInput{
		CPF:   r.FormValue("cpf"),
		Nome:  r.FormValue("nome"),
		Email: r.FormValue("email"),
		Curso: r.FormValue("curso"),
		Senha: r.FormValue("senha"),
	}

	if raw := r.FormValue("boletos"); raw != "" {
		var payloads []boletoPayload
		if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
			writeError(w, http.StatusBadRequest, "boletos inválidos", "Erro ao registrar usuário")
			return
		}
		inputs, err := toInputs(payloads)
		if err != nil {
			writeAppError(w, h.Logger, http.StatusBadRequest, err, "Erro ao registrar usuário")
			return
		}
		in.Boletos = inputs
	}

	u, err := h.Service.Register(r.Context(), in)
	if err != nil {
		// register keeps the original catch-all 400 contract
		writeAppError(w, h.Logger, http.StatusBadRequest, err, "Erro ao registrar usuário")
		return
	}

	token, err := IssueToken(u.CPF)
	if err != nil {
		writeAppError(w, h.Logger, http.StatusInternalServerError, err, "Erro ao registrar usuário")
		return
	}

	body := map[string]any{
		"message": "Usuário registrado com sucesso!",
		"token":   token,
	}
	if ok := writeJSON(w, h.Logger, http.StatusCreated, body); ok {
		h.Logger.Info("register", "cpf", u.CPF)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Service.Login(r.Context(), req.CPF, req.Senha)
	if err != nil {
		status := apperr.Status(err)
		if apperr.KindOf(err) == apperr.NotFound {
			// login answers 400 for an unknown cpf
			status = http.StatusBadRequest
		}
		writeAppError(w, h.Logger, status, err, "Erro ao fazer login")
		return
	}

	token, err := IssueToken(u.CPF)
	if err != nil {
		writeAppError(w, h.Logger, http.StatusInternalServerError, err, "Erro ao fazer login")
		return
	}

	body := map[string]any{"user": u, "token": token}
	if ok := writeJSON(w, h.Logger, http.StatusOK, body); ok {
		h.Logger.Info("login", "cpf", u.CPF)
	}
}

type profileCliente struct {
	CPF   string `json:"cpf"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Curso string `json:"curso"`
	Cargo string `json:"cargo"`
}

type profileBoleto struct {
	ID      string `json:"id"`
	Arquivo string `json:"arquivo"`
}

// Profile returns the curated view of the token's own user. The
// target cpf comes from the query string (or the legacy JSON body)
// and must match the token subject.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	var tokenClaims claims.Claims
	if ok := getClaimsFromContext(w, r, &tokenClaims); !ok {
		return
	}

	cpf := h.targetCPF(r)
	if cpf == "" {
		cpf = tokenClaims.CPF
	}
	if cpf != tokenClaims.CPF {
		writeError(w, http.StatusForbidden, "acesso negado", "Erro ao obter perfil")
		return
	}

	u, err := h.Service.Profile(r.Context(), cpf)
	if err != nil {
		writeAppError(w, h.Logger, apperr.Status(err), err, "Erro ao obter perfil")
		return
	}

	boletos := make([]profileBoleto, 0, len(u.Boletos))
	for _, b := range u.Boletos {
		boletos = append(boletos, profileBoleto{ID: b.ID, Arquivo: b.Arquivo})
	}

	writeJSON(w, h.Logger, http.StatusOK, map[string]any{
		"cliente": profileCliente{
			CPF:   u.CPF,
			Nome:  u.Nome,
			Email: u.Email,
			Curso: u.Curso,
			Cargo: u.Cargo,
		},
		"boletos": boletos,
	})
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeAppError(w, h.Logger, http.StatusInternalServerError, err, "Erro ao obter usuários")
		return
	}
	if users == nil {
		users = []*user.User{}
	}

	writeJSON(w, h.Logger, http.StatusOK, users)
}

type editForm struct {
	CPF     string          `json:"cpf"`
	Nome    *string         `json:"nome"`
	Email   *string         `json:"email"`
	Curso   *string         `json:"curso"`
	Cargo   *string         `json:"cargo"`
	Boletos []boletoPayload `json:"boletos"`
}

// EditUser overwrites exactly the fields present in the payload; a
// field set to "" is an overwrite, an absent field is left alone.
func (h *Handler) EditUser(w http.ResponseWriter, r *http.Request) {
	var tokenClaims claims.Claims
	if ok := getClaimsFromContext(w, r, &tokenClaims); !ok {
		return
	}

	var req editForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	if req.CPF != tokenClaims.CPF {
		writeError(w, http.StatusForbidden, "acesso negado", "Erro ao atualizar dados")
		return
	}

	inputs, err := toInputs(req.Boletos)
	if err != nil {
		writeAppError(w, h.Logger, http.StatusBadRequest, err, "Erro ao atualizar dados")
		return
	}

	err = h.Service.Edit(r.Context(), user.EditInput{
		CPF:     req.CPF,
		Nome:    req.Nome,
		Email:   req.Email,
		Curso:   req.Curso,
		Cargo:   req.Cargo,
		Boletos: inputs,
	})
	if err != nil {
		writeAppError(w, h.Logger, apperr.Status(err), err, "Erro ao atualizar dados")
		return
	}

	body := map[string]string{"message": "Dados do usuário e boletos atualizados com sucesso!"}
	if ok := writeJSON(w, h.Logger, http.StatusOK, body); ok {
		h.Logger.Info("edit user", "cpf", req.CPF)
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var tokenClaims claims.Claims
	if ok := getClaimsFromContext(w, r, &tokenClaims); !ok {
		return
	}

	cpf := h.targetCPF(r)
	if cpf == "" {
		writeError(w, http.StatusBadRequest, "cpf é obrigatório", "Erro ao deletar usuário")
		return
	}
	if cpf != tokenClaims.CPF {
		writeError(w, http.StatusForbidden, "acesso negado", "Erro ao deletar usuário")
		return
	}

	if err := h.Service.Delete(r.Context(), cpf); err != nil {
		writeAppError(w, h.Logger, apperr.Status(err), err, "Erro ao deletar usuário")
		return
	}

	body := map[string]string{"message": "Usuário e seus boletos foram deletados com sucesso!"}
	if ok := writeJSON(w, h.Logger, http.StatusOK, body); ok {
		h.Logger.Info("delete user", "cpf", cpf)
	}
}

// targetCPF reads the target identity from the query string, falling
// back to the JSON body the original contract used on GET and DELETE.
func (h *Handler) targetCPF(r *http.Request) string {
	if cpf := r.URL.Query().Get("cpf"); cpf != "" {
		return cpf
	}

	if r.Body == nil {
		return ""
	}
	defer r.Body.Close()

	var req struct {
		CPF string `json:"cpf"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ""
	}
	return req.CPF
}
