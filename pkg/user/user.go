package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boletohub/pkg/boleto"
)

const CargoStudent = "student"

// User is one registrant. Senha holds the bcrypt hash and is never
// serialized; BoletoIDs is the stored reference list, Boletos the
// resolved documents attached before a response.
type User struct {
	MongoID   primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	ID        string               `bson:"-" json:"id"`
	CPF       string               `bson:"cpf" json:"cpf"`
	Nome      string               `bson:"nome" json:"nome"`
	Email     string               `bson:"email" json:"email"`
	Curso     string               `bson:"curso" json:"curso"`
	Senha     string               `bson:"senha" json:"-"`
	Cargo     string               `bson:"cargo" json:"cargo"`
	BoletoIDs []primitive.ObjectID `bson:"boletos" json:"-"`
	Boletos   []*boleto.Boleto     `bson:"-" json:"boletos"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByCPF(ctx context.Context, cpf string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
	SetBoletos(ctx context.Context, id primitive.ObjectID, boletoIDs []primitive.ObjectID) error
	PushBoleto(ctx context.Context, id, boletoID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
