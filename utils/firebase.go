// utils/firebase.go
package utils

import (
	"context"
	"os"

	"haulaway/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMClient is nil when no service-account key is configured; status pushes
// are then skipped per send instead of blocking startup.
var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
func FirebaseInit() {
	logger := GetLogger()
	keyPath := config.AppConfig.FirebaseKeyPath

	if _, err := os.Stat(keyPath); err != nil {
		logger.Warn("firebase: service account key not found, push notifications disabled",
			zap.String("path", keyPath))
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(keyPath))
	if err != nil {
		logger.Sugar().Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Sugar().Fatalf("firebase: error getting Messaging client: %v", err)
	}

	FCMClient = client
}
