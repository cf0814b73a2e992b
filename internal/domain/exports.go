package domain

import (
	interfaces "signa/internal/domain/interfaces"
	types "signa/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SignID      = types.SignID
	UserID      = types.UserID
	Route       = types.Route
	Ack         = types.Ack
	Profile     = types.Profile
	Credentials = types.Credentials
	LoginResult = types.LoginResult
	Sign        = types.Sign
	Owner       = types.Owner
	SignRecord  = types.SignRecord
	SignDraft   = types.SignDraft
	SignPatch   = types.SignPatch
	SignResult  = types.SignResult
	SignList    = types.SignList
	User        = types.User
	UserDraft   = types.UserDraft
	UserPatch   = types.UserPatch
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Storage      = interfaces.Storage
	AuthAPI      = interfaces.AuthAPI
	SignAPI      = interfaces.SignAPI
	UserAPI      = interfaces.UserAPI
	HeaderSource = interfaces.HeaderSource
	Guard        = interfaces.Guard
	Navigator    = interfaces.Navigator
)

// Routes re-exported for callers that only import domain.
const (
	RouteLogin        = types.RouteLogin
	RouteSigns        = types.RouteSigns
	RouteRegisterSign = types.RouteRegisterSign
)

// DraftOf returns the editable fields of a record.
func DraftOf(r SignRecord) SignDraft { return types.DraftOf(r) }
