// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type SearchRequestedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	Query      string    `json:"query"`
	RadiusKm   *float64  `json:"radius_km,omitempty"`
	MaxResults *int      `json:"max_results,omitempty"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	query := flag.String("query", "Barcelona", "Place to search around")
	radius := flag.Float64("radius", 2.0, "Search radius in km")
	limit := flag.Int("max", 20, "Maximum number of results")
	wait := flag.Duration("wait", 30*time.Second, "How long to wait for the result")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := SearchRequestedEvent{
		RequestID:  uuid.New(),
		Query:      *query,
		RadiusKm:   radius,
		MaxResults: limit,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Запоминаем хвост стрима результатов до публикации
	lastID := "0"
	tail, err := client.XRevRangeN(ctx, "stream:laundromat:done", "+", "-", 1).Result()
	if err != nil {
		log.Fatalf("Failed to read results stream: %v", err)
	}
	if len(tail) > 0 {
		lastID = tail[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:laundromat:search",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published search %s as message %s\n", event.RequestID, id)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:laundromat:done", lastID},
			Block:   time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			log.Fatalf("Failed to read results: %v", err)
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				lastID = msg.ID
				payload, _ := msg.Values["data"].(string)

				var done struct {
					RequestID uuid.UUID `json:"request_id"`
				}
				if err := json.Unmarshal([]byte(payload), &done); err != nil || done.RequestID != event.RequestID {
					continue
				}
				fmt.Println(payload)
				return
			}
		}
	}

	log.Fatalf("No result for %s within %v", event.RequestID, *wait)
}
