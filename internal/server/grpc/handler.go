package grpc

import (
	"context"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"github.com/dmitrijs2005/friendbook/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return newStruct(map[string]any{"status": "OK"})
}

// Register is unauthenticated, so every account created here gets RoleUser
// whatever the request says.
func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	candidate := &models.User{
		FirstName:  stringField(req, "firstName"),
		LastName:   stringField(req, "lastName"),
		Email:      stringField(req, "email"),
		Password:   stringField(req, "password"),
		Role:       common.RoleUser,
		SecretCode: stringField(req, "secretCode"),
	}

	user, err := s.users.RegisterUser(ctx, candidate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return newStruct(userMap(user, true))
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.users.Login(ctx, stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return newStruct(map[string]any{
		"accessToken": res.AccessToken,
		"expiresAt":   res.ExpiresAt.Unix(),
		"user":        userMap(res.User, true),
	})
}

func (s *GRPCServer) RecoverPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	msg, err := s.users.RecoverPassword(ctx, stringField(req, "email"), stringField(req, "secretCode"), stringField(req, "password"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return newStruct(map[string]any{"message": msg})
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetOneAccountByID(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return newStruct(userMap(user, true))
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile := models.Profile{
		FirstName:  stringField(req, "firstName"),
		LastName:   stringField(req, "lastName"),
		SecretCode: stringField(req, "secretCode"),
	}
	user, err := s.users.Update(ctx, profile, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return newStruct(userMap(user, true))
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.users.ChangePassword(ctx, id, stringField(req, "password"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return newStruct(map[string]any{"message": msg})
}

func (s *GRPCServer) ListNonFriends(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetAllUsersNotFriends(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	list := make([]any, 0, len(users))
	for i := range users {
		list = append(list, userMap(&users[i], false))
	}
	return newStruct(map[string]any{"users": list})
}

func (s *GRPCServer) UserExists(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, err := userIDFromContext(ctx); err != nil {
		return nil, err
	}

	id, ok := int64Field(req, "id")
	if !ok {
		return nil, s.toStatus(ctx, common.NewValidationError("id"))
	}

	exists, err := s.users.CheckUserExist(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return newStruct(map[string]any{"exists": exists})
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return st, nil
}

// userMap renders u for the wire. The password is never included;
// secretCode only for the account owner.
func userMap(u *models.User, withSecret bool) map[string]any {
	m := map[string]any{
		"id":        u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"role":      u.Role,
	}
	if withSecret {
		m["secretCode"] = u.SecretCode
	}
	return m
}

func stringField(st *structpb.Struct, key string) string {
	return st.GetFields()[key].GetStringValue()
}

// int64Field reads a whole number; fractional values are rejected.
func int64Field(st *structpb.Struct, key string) (int64, bool) {
	v, ok := st.GetFields()[key]
	if !ok {
		return 0, false
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := int64(k.NumberValue)
		return n, float64(n) == k.NumberValue
	default:
		return 0, false
	}
}
