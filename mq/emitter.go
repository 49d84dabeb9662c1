package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/rdx"
	"voyago/search"

	"go.mongodb.org/mongo-driver/bson"
)

const indexingChannel = "indexing-events"

// Emit publishes an indexing event to redis. The worker picks it up
// out of the request path, so catalog writes never block on indexing.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] failed to marshal %s event: %v", eventName, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, indexingChannel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", eventName, err)
	}
}

// StartIndexingWorker consumes indexing events and keeps the redis
// search index in step with the catalog. Blocks until ctx ends.
func StartIndexingWorker(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, indexingChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[IndexingWorker] listening for indexing events")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.Index
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[IndexingWorker] bad event payload: %v", err)
				continue
			}
			if err := handleEvent(ctx, event); err != nil {
				log.Printf("[IndexingWorker] %s %s failed: %v", event.Method, event.EntityId, err)
			}
		}
	}
}

func handleEvent(ctx context.Context, event models.Index) error {
	if event.EntityType != "tour" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if event.Method == "DELETE" {
		return search.RemoveTour(ctx, event.EntityId)
	}

	var tour models.Tour
	if err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": event.EntityId}).Decode(&tour); err != nil {
		return err
	}
	return search.IndexTour(ctx, tour)
}
