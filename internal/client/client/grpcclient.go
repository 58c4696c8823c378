package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

// NewFriendbookClient creates a client for endpointURL. Every call is bounded
// by timeout when it is positive. Extra dial options are appended after the
// defaults.
func NewFriendbookClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *GRPCClient) setToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, common.FullMethodName(method), req, out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// mapError converts a gRPC status into one of the package sentinels, keeping
// the server's message where it helps the user.
func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	default:
		return err
	}
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	_, err := c.call(ctx, "Ping", nil)
	return err
}

func (c *GRPCClient) Register(ctx context.Context, r Registration) (*User, error) {
	out, err := c.call(ctx, "Register", map[string]any{
		"firstName":  r.FirstName,
		"lastName":   r.LastName,
		"email":      r.Email,
		"password":   string(r.Password),
		"secretCode": r.SecretCode,
	})
	if err != nil {
		return nil, err
	}
	return userFromStruct(out), nil
}

// Login authenticates and keeps the issued access token for later calls.
func (c *GRPCClient) Login(ctx context.Context, email string, password []byte) (*User, error) {
	out, err := c.call(ctx, "Login", map[string]any{"email": email, "password": string(password)})
	if err != nil {
		return nil, err
	}

	c.setToken(out.GetFields()["accessToken"].GetStringValue())
	return userFromStruct(out.GetFields()["user"].GetStructValue()), nil
}

// Logout forgets the access token.
func (c *GRPCClient) Logout() {
	c.setToken("")
}

func (c *GRPCClient) RecoverPassword(ctx context.Context, email, secretCode string, newPassword []byte) (string, error) {
	out, err := c.call(ctx, "RecoverPassword", map[string]any{
		"email": email, "secretCode": secretCode, "password": string(newPassword),
	})
	if err != nil {
		return "", err
	}
	return out.GetFields()["message"].GetStringValue(), nil
}

func (c *GRPCClient) Profile(ctx context.Context) (*User, error) {
	out, err := c.call(ctx, "GetProfile", nil)
	if err != nil {
		return nil, err
	}
	return userFromStruct(out), nil
}

func (c *GRPCClient) UpdateProfile(ctx context.Context, firstName, lastName, secretCode string) (*User, error) {
	out, err := c.call(ctx, "UpdateProfile", map[string]any{
		"firstName": firstName, "lastName": lastName, "secretCode": secretCode,
	})
	if err != nil {
		return nil, err
	}
	return userFromStruct(out), nil
}

func (c *GRPCClient) ChangePassword(ctx context.Context, newPassword []byte) (string, error) {
	out, err := c.call(ctx, "ChangePassword", map[string]any{"password": string(newPassword)})
	if err != nil {
		return "", err
	}
	return out.GetFields()["message"].GetStringValue(), nil
}

func (c *GRPCClient) NonFriends(ctx context.Context) ([]User, error) {
	out, err := c.call(ctx, "ListNonFriends", nil)
	if err != nil {
		return nil, err
	}

	values := out.GetFields()["users"].GetListValue().GetValues()
	users := make([]User, 0, len(values))
	for _, v := range values {
		users = append(users, *userFromStruct(v.GetStructValue()))
	}
	return users, nil
}

func (c *GRPCClient) UserExists(ctx context.Context, id int64) (bool, error) {
	out, err := c.call(ctx, "UserExists", map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return out.GetFields()["exists"].GetBoolValue(), nil
}

func userFromStruct(st *structpb.Struct) *User {
	f := st.GetFields()
	return &User{
		ID:         int64(f["id"].GetNumberValue()),
		FirstName:  f["firstName"].GetStringValue(),
		LastName:   f["lastName"].GetStringValue(),
		Email:      f["email"].GetStringValue(),
		Role:       f["role"].GetStringValue(),
		SecretCode: f["secretCode"].GetStringValue(),
	}
}
