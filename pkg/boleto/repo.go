package boleto

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"boletohub/pkg/apperr"
)

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("boletos"),
	}
}

func (r *MongoRepo) Create(ctx context.Context, b *Boleto) error {
	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		return apperr.Wrap(apperr.Store, "erro ao salvar boleto", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to convert inserted ID to ObjectID")
	}
	b.MongoID = oid
	b.ID = oid.Hex()

	return nil
}

// UpdateByID overwrites the mutable fields of one boleto. The filter
// carries the owner from b.UserID, so an id belonging to another user
// matches nothing and the update reports not found.
func (r *MongoRepo) UpdateByID(ctx context.Context, id string, b *Boleto) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "id de boleto inválido")
	}

	update := bson.M{
		"$set": bson.M{
			"arquivo":    b.Arquivo,
			"status":     b.Status,
			"descricao":  b.Descricao,
			"vencimento": b.Vencimento,
			"valor":      b.Valor,
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "userId": b.UserID}, update)
	if err != nil {
		return apperr.Wrap(apperr.Store, "erro ao atualizar boleto", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "boleto não encontrado")
	}

	b.MongoID = objectID
	b.ID = id
	return nil
}

func (r *MongoRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Boleto, error) {
	if len(ids) == 0 {
		return []*Boleto{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "erro ao buscar boletos", err)
	}
	defer cursor.Close(ctx)

	found := make(map[primitive.ObjectID]*Boleto, len(ids))
	for cursor.Next(ctx) {
		var b Boleto
		if err := cursor.Decode(&b); err != nil {
			continue
		}
		b.ID = b.MongoID.Hex()
		found[b.MongoID] = &b
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Store, "erro ao buscar boletos", err)
	}

	// keep the owner's list order
	boletos := make([]*Boleto, 0, len(found))
	for _, id := range ids {
		if b, ok := found[id]; ok {
			boletos = append(boletos, b)
		}
	}
	return boletos, nil
}

func (r *MongoRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return apperr.Wrap(apperr.Store, fmt.Sprintf("erro ao deletar boletos do usuário %s", userID.Hex()), err)
	}
	return nil
}
