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
	UserCollection        *mongo.Collection
	ProductCollection     *mongo.Collection
	CartCollection        *mongo.Collection
	NegotiationCollection *mongo.Collection
	OrderCollection       *mongo.Collection
	MarketPriceCollection *mongo.Collection
	ImpactCollection      *mongo.Collection
	ContactCollection     *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("farmforkdb")
	UserCollection = database.Collection("users")
	ProductCollection = database.Collection("products")
	CartCollection = database.Collection("cart")
	NegotiationCollection = database.Collection("negotiations")
	OrderCollection = database.Collection("orders")
	MarketPriceCollection = database.Collection("marketprices")
	ImpactCollection = database.Collection("impactstories")
	ContactCollection = database.Collection("contacts")
}
