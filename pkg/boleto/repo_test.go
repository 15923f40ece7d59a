package boleto_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"boletohub/pkg/apperr"
	"boletohub/pkg/boleto"
)

func TestNewDefaults(t *testing.T) {
	userID := primitive.NewObjectID()

	b := boleto.New(userID, boleto.Input{Arquivo: "AAA="})

	assert.Equal(t, boleto.StatusPendente, b.Status)
	assert.Equal(t, "", b.Descricao)
	assert.True(t, b.Vencimento.IsZero())
	assert.Zero(t, b.Valor)
	assert.Equal(t, userID, b.UserID)

	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	b = boleto.New(userID, boleto.Input{Arquivo: "BBB=", Status: boleto.StatusPago, Vencimento: due, Valor: 150.5})

	assert.Equal(t, boleto.StatusPago, b.Status)
	assert.Equal(t, due, b.Vencimento)
	assert.Equal(t, 150.5, b.Valor)
}

func TestMongoRepo_CreateBoleto(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success assigns ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := boleto.NewMongoRepo(mt.DB)

		b := boleto.New(primitive.NewObjectID(), boleto.Input{Arquivo: "AAA="})
		err := repo.Create(context.Background(), b)

		assert.NoError(t, err)
		assert.False(t, b.MongoID.IsZero())
		assert.Equal(t, b.MongoID.Hex(), b.ID)
	})
}

func TestMongoRepo_FindByIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty id list short-circuits", func(mt *mtest.T) {
		repo := boleto.NewMongoRepo(mt.DB)

		got, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	mt.Run("results keep the owner's list order", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		// store answers in reverse order
		docs := []bson.D{
			{{Key: "_id", Value: second}, {Key: "arquivo", Value: "BBB="}, {Key: "status", Value: "pago"}},
			{{Key: "_id", Value: first}, {Key: "arquivo", Value: "AAA="}, {Key: "status", Value: "pendente"}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "souzamarques.boletos", mtest.FirstBatch, docs...))
		repo := boleto.NewMongoRepo(mt.DB)

		got, err := repo.FindByIDs(context.Background(), []primitive.ObjectID{first, second})

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, first.Hex(), got[0].ID)
		assert.Equal(t, second.Hex(), got[1].ID)
	})
}

func TestMongoRepo_UpdateByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("invalid hex id", func(mt *mtest.T) {
		repo := boleto.NewMongoRepo(mt.DB)

		err := repo.UpdateByID(context.Background(), "oops", &boleto.Boleto{})

		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	mt.Run("no matched document is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		repo := boleto.NewMongoRepo(mt.DB)

		err := repo.UpdateByID(context.Background(), primitive.NewObjectID().Hex(), &boleto.Boleto{Arquivo: "AAA="})

		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})

	mt.Run("filter is scoped to the owner", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := boleto.NewMongoRepo(mt.DB)

		owner := primitive.NewObjectID()
		err := repo.UpdateByID(context.Background(), primitive.NewObjectID().Hex(), &boleto.Boleto{UserID: owner, Arquivo: "AAA="})
		assert.NoError(t, err)

		evt := mt.GetStartedEvent()
		assert.Equal(t, "update", evt.CommandName)
		got, ok := evt.Command.Lookup("updates", "0", "q", "userId").ObjectIDOK()
		assert.True(t, ok)
		assert.Equal(t, owner, got)
	})
}

func TestMongoRepo_DeleteByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))
		repo := boleto.NewMongoRepo(mt.DB)

		err := repo.DeleteByUser(context.Background(), primitive.NewObjectID())

		assert.NoError(t, err)
	})

	mt.Run("store error is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Message: "some error",
		}))
		repo := boleto.NewMongoRepo(mt.DB)

		err := repo.DeleteByUser(context.Background(), primitive.NewObjectID())

		assert.Equal(t, apperr.Store, apperr.KindOf(err))
	})
}
