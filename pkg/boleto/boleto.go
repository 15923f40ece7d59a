package boleto

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPendente = "pendente"
	StatusPago     = "pago"
)

// Boleto is one billing document: metadata plus the file itself as an
// opaque base64 blob.
type Boleto struct {
	MongoID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID         string             `bson:"-" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"-"`
	Arquivo    string             `bson:"arquivo" json:"arquivo"`
	Status     string             `bson:"status" json:"status"`
	Descricao  string             `bson:"descricao" json:"descricao"`
	Vencimento time.Time          `bson:"vencimento" json:"vencimento"`
	Valor      float64            `bson:"valor" json:"valor"`
}

// Input carries one boleto entry from a register or edit payload.
// Zero values are the defaults the contract documents; ID is set only
// on edit entries that update an existing boleto in place.
type Input struct {
	ID         string    `json:"id,omitempty"`
	Arquivo    string    `json:"base64"`
	Status     string    `json:"status"`
	Descricao  string    `json:"descricao"`
	Vencimento time.Time `json:"vencimento"`
	Valor      float64   `json:"valor"`
}

// New builds a Boleto owned by userID from an input entry, applying
// the documented defaults.
func New(userID primitive.ObjectID, in Input) *Boleto {
	status := in.Status
	if status == "" {
		status = StatusPendente
	}
	return &Boleto{
		UserID:     userID,
		Arquivo:    in.Arquivo,
		Status:     status,
		Descricao:  in.Descricao,
		Vencimento: in.Vencimento,
		Valor:      in.Valor,
	}
}

type Repository interface {
	Create(ctx context.Context, b *Boleto) error
	UpdateByID(ctx context.Context, id string, b *Boleto) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Boleto, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}
