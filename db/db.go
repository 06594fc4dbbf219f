package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection            *mongo.Collection
	ProjectsCollection        *mongo.Collection
	BidsCollection            *mongo.Collection
	ChatsCollection           *mongo.Collection
	MessagesCollection        *mongo.Collection
	ContactMessagesCollection *mongo.Collection
	NotificationsCollection   *mongo.Collection
	Client                    *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("mistridb")
	UserCollection = database.Collection("users")
	ProjectsCollection = database.Collection("projects")
	BidsCollection = database.Collection("bids")
	ChatsCollection = database.Collection("chats")
	MessagesCollection = database.Collection("messages")
	ContactMessagesCollection = database.Collection("contactMessages")
	NotificationsCollection = database.Collection("notifications")
}

// OptionsFindLatest builds find options limited to n documents.
func OptionsFindLatest(n int64) *options.FindOptions {
	return options.Find().SetLimit(n)
}
