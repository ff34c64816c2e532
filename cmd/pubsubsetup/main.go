package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
)

// Creates topics and subscriptions on the pubsub emulator. The single
// argument follows the pattern:
//
//	PROJECTID,TOPIC1:SUB11:SUB12,TOPIC2:SUB21
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: pubsubsetup PROJECTID,TOPIC1:SUB11:SUB12,TOPIC2:SUB21")
		return
	}

	items := strings.Split(os.Args[1], ",")
	projectID := strings.TrimSpace(items[0])
	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Panicf("unable to create client to project %q: %s", projectID, err)
	}
	defer client.Close()
	fmt.Println("project ID:", projectID)

	for _, item := range items[1:] {
		parts := strings.Split(item, ":")
		topicID := strings.TrimSpace(parts[0])
		topic, err := client.CreateTopic(ctx, topicID)
		if err != nil {
			if !strings.Contains(err.Error(), "Topic already exists") {
				log.Panicf("unable to create topic %s for project %s: %v", topicID, projectID, err)
			}
			topic = client.Topic(topicID)
		}

		for _, s := range parts[1:] {
			subscriptionID := strings.TrimSpace(s)
			_, err = client.CreateSubscription(ctx, subscriptionID, pubsub.SubscriptionConfig{Topic: topic})
			if err != nil && !strings.Contains(err.Error(), "Subscription already exists") {
				log.Panicf("unable to create subscription %s on topic %s for project %s: %v", subscriptionID, topicID, projectID, err)
			}
			fmt.Printf("project, topic, subscription: [%s, %s, %s]\n", projectID, topicID, subscriptionID)
		}
	}
}
