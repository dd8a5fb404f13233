package message

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("message not found")

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("messages"),
	}
}

func (r *MongoRepo) Create(msg *Message) error {
	ctx := context.TODO()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.MongoID = oid
		msg.ID = oid.Hex()
	} else {
		return errors.New("failed to convert inserted ID to ObjectID")
	}

	return nil
}

func (r *MongoRepo) GetByID(id string) (*Message, error) {
	ctx := context.TODO()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid ID format")
	}

	var msg Message
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	msg.ID = msg.MongoID.Hex()
	return &msg, nil
}

// ChatMessages returns up to limit non-deleted messages for the chat,
// offset from the newest, in ascending (chronological) order.
func (r *MongoRepo) ChatMessages(chatID int64, limit, offset int) ([]*Message, error) {
	ctx := context.TODO()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{"chatId": chatID, "isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*Message
	for cursor.Next(ctx) {
		var msg Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msg.ID = msg.MongoID.Hex()
		messages = append(messages, &msg)
	}

	// newest-first query, oldest-first response
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *MongoRepo) MarkRead(id string, userID int64) error {
	ctx := context.TODO()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ID format")
	}

	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"readBy": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) LastMessage(chatID int64) (*Message, error) {
	ctx := context.TODO()

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var msg Message
	err := r.collection.FindOne(ctx, bson.M{"chatId": chatID, "isDeleted": false}, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	msg.ID = msg.MongoID.Hex()
	return &msg, nil
}

// UnreadCount counts chat messages the user neither sent nor has read.
func (r *MongoRepo) UnreadCount(chatID, userID int64) (int, error) {
	ctx := context.TODO()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"chatId":    chatID,
		"isDeleted": false,
		"sender.id": bson.M{"$ne": userID},
		"readBy":    bson.M{"$ne": userID},
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *MongoRepo) DeleteBySender(senderID int64) error {
	ctx := context.TODO()
	_, err := r.collection.DeleteMany(ctx, bson.M{"sender.id": senderID})
	return err
}
