package firebase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allinsys/contactforms/internal/config"
	"github.com/allinsys/contactforms/internal/logging"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

const tokenURI = "https://oauth2.googleapis.com/token"

// App owns the Firestore client for the lifetime of the process.
// It is created once at startup and passed to the components that need it.
type App struct {
	app       *firebase.App
	Firestore *firestore.Client
}

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// CredentialsJSON builds a service account document from the inline identity
func CredentialsJSON(projectID, clientEmail, privateKey string) ([]byte, error) {
	if clientEmail == "" || privateKey == "" {
		return nil, fmt.Errorf("client email and private key are required")
	}
	return json.Marshal(serviceAccount{
		Type:        "service_account",
		ProjectID:   projectID,
		ClientEmail: clientEmail,
		PrivateKey:  config.NormalizePrivateKey(privateKey),
		TokenURI:    tokenURI,
	})
}

// ClientOptions selects the credentials source: a service account file when
// configured, otherwise the inline identity from the environment.
func ClientOptions(cfg *config.Config) ([]option.ClientOption, error) {
	if cfg.FirebaseCredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseCredentialsFile)}, nil
	}
	creds, err := CredentialsJSON(cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
}

// Initialize initializes the Firebase Admin SDK and opens the Firestore client
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.GetGlobalLogger()

	// The Firestore client picks up FIRESTORE_EMULATOR_HOST and skips auth
	if cfg.FirestoreEmulatorHost != "" {
		logger.Info("Using Firestore emulator at %s", cfg.FirestoreEmulatorHost)
		client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Firestore emulator: %w", err)
		}
		return &App{Firestore: client}, nil
	}

	opts, err := ClientOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid Firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	logger.Info("Firebase initialized for project %s", cfg.FirebaseProjectID)
	return &App{app: app, Firestore: client}, nil
}

// Close releases the Firestore connection
func (a *App) Close() error {
	if a == nil || a.Firestore == nil {
		return nil
	}
	return a.Firestore.Close()
}
