package user

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"boletohub/pkg/apperr"
	"boletohub/pkg/boleto"
	"boletohub/pkg/generator"
	"boletohub/pkg/session"
)

var cpfPattern = regexp.MustCompile(`^\d{11}$`)

// resolveConcurrency caps the errgroup fan-out when attaching boletos
// to the full user listing.
const resolveConcurrency = 8

// TxRunner executes fn inside a single multi-document transaction; the
// context it passes down routes every store call through that
// transaction. Tests inject a pass-through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type RegisterInput struct {
	CPF     string
	Nome    string
	Email   string
	Curso   string
	Senha   string
	Boletos []boleto.Input
}

// EditInput uses pointers for the user fields: nil means "unchanged",
// a pointer to the empty string really sets the field to empty.
type EditInput struct {
	CPF     string
	Nome    *string
	Email   *string
	Curso   *string
	Cargo   *string
	Boletos []boleto.Input
}

type ServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, cpf, senha string) (*User, error)
	Profile(ctx context.Context, cpf string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	UploadBoleto(ctx context.Context, subjectCPF, userID, arquivo string) error
	Edit(ctx context.Context, in EditInput) error
	Delete(ctx context.Context, cpf string) error
}

type Service struct {
	Repo    Repository
	Boletos boleto.Repository
	Session session.Repository
	RunTx   TxRunner
}

func NewService(repo Repository, boletos boleto.Repository, sess session.Repository, runTx TxRunner) *Service {
	return &Service{Repo: repo, Boletos: boletos, Session: sess, RunTx: runTx}
}

// Register validates and creates the User, then creates the supplied
// boletos and the user's reference list inside one transaction. A
// failed batch leaves the User created without boletos; the batch
// itself is all-or-nothing.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if !cpfPattern.MatchString(in.CPF) {
		return nil, apperr.New(apperr.Validation, "CPF inválido!")
	}

	exist, err := s.Repo.FindByCPF(ctx, in.CPF)
	if err != nil && apperr.KindOf(err) != apperr.NotFound {
		return nil, err
	}
	if exist != nil {
		return nil, apperr.New(apperr.Conflict, fmt.Sprintf("O CPF %s já está registrado.", in.CPF))
	}

	exist, err = s.Repo.FindByEmail(ctx, in.Email)
	if err != nil && apperr.KindOf(err) != apperr.NotFound {
		return nil, err
	}
	if exist != nil {
		return nil, apperr.New(apperr.Conflict, fmt.Sprintf("O email %s já está registrado.", in.Email))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password error: %w", err)
	}

	u := &User{
		CPF:   in.CPF,
		Nome:  in.Nome,
		Email: in.Email,
		Curso: in.Curso,
		Senha: string(hashed),
		Cargo: CargoStudent,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if len(in.Boletos) > 0 {
		err := s.RunTx(ctx, func(txCtx context.Context) error {
			ids := make([]primitive.ObjectID, 0, len(in.Boletos))
			for _, entry := range in.Boletos {
				b := boleto.New(u.MongoID, entry)
				if err := s.Boletos.Create(txCtx, b); err != nil {
					return err
				}
				ids = append(ids, b.MongoID)
			}
			return s.Repo.SetBoletos(txCtx, u.MongoID, ids)
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.createSession(u.CPF); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Login(ctx context.Context, cpf, senha string) (*User, error) {
	u, err := s.Repo.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Senha), []byte(senha)); err != nil {
		return nil, apperr.New(apperr.Auth, "Senha incorreta!")
	}

	u.Boletos, err = s.Boletos.FindByIDs(ctx, u.BoletoIDs)
	if err != nil {
		return nil, err
	}

	if err := s.createSession(u.CPF); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Profile(ctx context.Context, cpf string) (*User, error) {
	u, err := s.Repo.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}

	u.Boletos, err = s.Boletos.FindByIDs(ctx, u.BoletoIDs)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// GetAll lists every user with boletos resolved. Resolution fans out
// one lookup per user and joins before returning; the first failure
// cancels the rest.
func (s *Service) GetAll(ctx context.Context) ([]*User, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for _, u := range users {
		u := u
		g.Go(func() error {
			boletos, err := s.Boletos.FindByIDs(gctx, u.BoletoIDs)
			if err != nil {
				return err
			}
			u.Boletos = boletos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return users, nil
}

// UploadBoleto creates one boleto for userID and appends it to that
// user's list in one transaction. The token subject must own the
// target user.
func (s *Service) UploadBoleto(ctx context.Context, subjectCPF, userID, arquivo string) error {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.CPF != subjectCPF {
		return apperr.New(apperr.Forbidden, "boleto pertence a outro usuário")
	}

	return s.RunTx(ctx, func(txCtx context.Context) error {
		b := boleto.New(u.MongoID, boleto.Input{Arquivo: arquivo})
		if err := s.Boletos.Create(txCtx, b); err != nil {
			return err
		}
		return s.Repo.PushBoleto(txCtx, u.MongoID, b.MongoID)
	})
}

// Edit overwrites the user fields the client sent, then applies the
// boleto batch: entries with an id update in place, the rest are
// created and appended. The batch runs in one transaction; the user
// field update persists independently of it.
func (s *Service) Edit(ctx context.Context, in EditInput) error {
	u, err := s.Repo.FindByCPF(ctx, in.CPF)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if in.Nome != nil {
		fields["nome"] = *in.Nome
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Curso != nil {
		fields["curso"] = *in.Curso
	}
	if in.Cargo != nil {
		fields["cargo"] = *in.Cargo
	}
	if err := s.Repo.UpdateFields(ctx, u.MongoID, fields); err != nil {
		return err
	}

	if len(in.Boletos) == 0 {
		return nil
	}

	// only ids in the user's own list may be updated in place
	owned := make(map[string]struct{}, len(u.BoletoIDs))
	for _, id := range u.BoletoIDs {
		owned[id.Hex()] = struct{}{}
	}
	for _, entry := range in.Boletos {
		if entry.ID == "" {
			continue
		}
		if _, ok := owned[entry.ID]; !ok {
			return apperr.New(apperr.NotFound, "boleto não encontrado")
		}
	}

	return s.RunTx(ctx, func(txCtx context.Context) error {
		var created []primitive.ObjectID
		for _, entry := range in.Boletos {
			b := boleto.New(u.MongoID, entry)
			if entry.ID != "" {
				if err := s.Boletos.UpdateByID(txCtx, entry.ID, b); err != nil {
					return err
				}
				continue
			}
			if err := s.Boletos.Create(txCtx, b); err != nil {
				return err
			}
			created = append(created, b.MongoID)
		}
		for _, id := range created {
			if err := s.Repo.PushBoleto(txCtx, u.MongoID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the user and every boleto referencing it in one
// transaction, then invalidates the user's sessions.
func (s *Service) Delete(ctx context.Context, cpf string) error {
	u, err := s.Repo.FindByCPF(ctx, cpf)
	if err != nil {
		return err
	}

	err = s.RunTx(ctx, func(txCtx context.Context) error {
		if err := s.Boletos.DeleteByUser(txCtx, u.MongoID); err != nil {
			return err
		}
		return s.Repo.Delete(txCtx, u.MongoID)
	})
	if err != nil {
		return err
	}

	return s.Session.Invalidate(cpf)
}

func (s *Service) createSession(cpf string) error {
	sessionID, err := generator.NewID(generator.SessionIDLength)
	if err != nil {
		return fmt.Errorf("SessionID gen error: %w", err)
	}
	if _, err := s.Session.Create(cpf, sessionID); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}
