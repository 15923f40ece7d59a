package user

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
		collection: db.Collection("users"),
	}
}

func (r *MongoRepo) Create(ctx context.Context, u *User) error {
	if u.BoletoIDs == nil {
		// mongo rejects $push on a missing array field
		u.BoletoIDs = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.Conflict, fmt.Sprintf("O CPF %s já está registrado.", u.CPF))
		}
		return apperr.Wrap(apperr.Store, "erro ao salvar usuário", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to convert inserted ID to ObjectID")
	}
	u.MongoID = oid
	u.ID = oid.Hex()

	return nil
}

func (r *MongoRepo) FindByCPF(ctx context.Context, cpf string) (*User, error) {
	return r.findOne(ctx, bson.M{"cpf": cpf})
}

func (r *MongoRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepo) FindByID(ctx context.Context, id string) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "id de usuário inválido")
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var u User
	err := r.collection.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "Usuário não encontrado!")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "erro ao buscar usuário", err)
	}
	u.ID = u.MongoID.Hex()
	return &u, nil
}

func (r *MongoRepo) FindAll(ctx context.Context) ([]*User, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "erro ao buscar usuários", err)
	}
	defer cursor.Close(ctx)

	var users []*User
	for cursor.Next(ctx) {
		var u User
		if err := cursor.Decode(&u); err != nil {
			continue
		}
		u.ID = u.MongoID.Hex()
		users = append(users, &u)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Store, "erro ao buscar usuários", err)
	}

	return users, nil
}

// UpdateFields applies a partial $set. Callers build the map only from
// fields the client actually sent, so an absent field is never
// mistaken for an empty one.
func (r *MongoRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.Conflict, "email já está registrado")
		}
		return apperr.Wrap(apperr.Store, "erro ao atualizar usuário", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Usuário não encontrado!")
	}
	return nil
}

func (r *MongoRepo) SetBoletos(ctx context.Context, id primitive.ObjectID, boletoIDs []primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"boletos": boletoIDs}})
	if err != nil {
		return apperr.Wrap(apperr.Store, "erro ao atualizar lista de boletos", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Usuário não encontrado!")
	}
	return nil
}

func (r *MongoRepo) PushBoleto(ctx context.Context, id, boletoID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"boletos": boletoID}})
	if err != nil {
		return apperr.Wrap(apperr.Store, "erro ao atualizar lista de boletos", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Usuário não encontrado!")
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Store, "erro ao deletar usuário", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Usuário não encontrado!")
	}
	return nil
}
