package services

import (
	"context"
	"log"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	messagingClient *messaging.Client
	once            sync.Once
	initError       error
)

func InitFirebase(credentialsPath string) error {
	once.Do(func() {
		ctx := context.Background()

		log.Printf("[FCM] Initializing Firebase with credentials: %s", credentialsPath)

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			initError = err
			log.Printf("[FCM][ERROR] Failed to init Firebase app: %v", err)
			return
		}

		messagingClient, err = app.Messaging(ctx)
		if err != nil {
			initError = err
			log.Printf("[FCM][ERROR] Failed to get messaging client: %v", err)
			return
		}

		log.Println("[FCM] Firebase Messaging client initialized successfully")
	})

	return initError
}

func getMessagingClient() (*messaging.Client, error) {
	if messagingClient == nil {
		log.Printf("[FCM][ERROR] Messaging client is nil (initError=%v)", initError)
		return nil, initError
	}
	return messagingClient, nil
}

// DeadTokenFunc is called for every token FCM reports as unregistered so
// the caller can purge it from wherever it is stored.
type DeadTokenFunc func(token string)

// NotifyHelpers multicasts a help-request alert to the given device tokens.
func NotifyHelpers(tokens []string, title, body string, data map[string]string, onDeadToken DeadTokenFunc) (int, int, error) {
	client, err := getMessagingClient()
	if err != nil {
		return 0, 0, err
	}

	log.Printf("[FCM] Sending multicast | tokens=%d title=%q", len(tokens), title)

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:   data,
		Tokens: tokens,
	}

	response, err := client.SendEachForMulticast(context.Background(), message)
	if err != nil {
		log.Printf("[FCM][ERROR] Multicast send failed entirely: %v", err)
		return 0, 0, err
	}

	log.Printf("[FCM] Multicast result | success=%d failure=%d",
		response.SuccessCount, response.FailureCount)

	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}

		token := tokens[i]
		log.Printf("[FCM][TOKEN ERROR] token=%s error=%v", token, resp.Error)

		if messaging.IsUnregistered(resp.Error) && onDeadToken != nil {
			log.Printf("[FCM] Purging dead token: %s", token)
			onDeadToken(token)
		}
	}

	return response.SuccessCount, response.FailureCount, nil
}
