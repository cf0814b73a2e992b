package interfaces

import (
	"context"

	domaintypes "signa/internal/domain/types"
)

// AuthAPI exchanges credentials for an access token.
type AuthAPI interface {
	Login(ctx context.Context, creds domaintypes.Credentials) (domaintypes.LoginResult, error)
}

// SignAPI is the backend's sign resource.
type SignAPI interface {
	CreateSign(ctx context.Context, draft domaintypes.SignDraft) (domaintypes.SignResult, error)
	ListSigns(ctx context.Context) ([]domaintypes.SignRecord, error)
	GetSign(ctx context.Context, id domaintypes.SignID) (domaintypes.SignResult, error)
	UpdateSign(
		ctx context.Context,
		id domaintypes.SignID,
		patch domaintypes.SignPatch,
	) (domaintypes.SignResult, error)
	DeleteSign(ctx context.Context, id domaintypes.SignID) (domaintypes.Ack, error)
}

// UserAPI is the backend's users resource.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domaintypes.User, error)
	GetUser(ctx context.Context, id domaintypes.UserID) (domaintypes.User, error)
	CreateUser(ctx context.Context, draft domaintypes.UserDraft) (domaintypes.SignResult, error)
	UpdateUser(
		ctx context.Context,
		id domaintypes.UserID,
		patch domaintypes.UserPatch,
	) (domaintypes.SignResult, error)
	DeleteUser(ctx context.Context, id domaintypes.UserID) (domaintypes.Ack, error)
}
