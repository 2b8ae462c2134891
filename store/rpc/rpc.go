// Package rpc exposes a store.Storage over Connect and provides the matching
// client. Requests and responses travel as google.protobuf.Struct messages
// holding the JSON form of rdf.Descriptor and rdf.ResultSet.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/tailored-agentic-units/journal/rdf"
	"github.com/tailored-agentic-units/journal/store"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// StorageServiceName is the fully-qualified name of the storage service.
	StorageServiceName = "journal.rdf.v1.StorageService"

	SearchProcedure = "/" + StorageServiceName + "/Search"
	CreateProcedure = "/" + StorageServiceName + "/Create"
)

// NewHandler builds an HTTP handler serving storage. It returns the path on
// which to mount the handler and the handler itself.
func NewHandler(storage store.Storage, opts ...connect.HandlerOption) (string, http.Handler) {
	search := connect.NewUnaryHandler(
		SearchProcedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
			return serve(ctx, req.Msg, storage.Search)
		},
		opts...,
	)
	create := connect.NewUnaryHandler(
		CreateProcedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
			return serve(ctx, req.Msg, storage.Create)
		},
		opts...,
	)

	return "/" + StorageServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SearchProcedure:
			search.ServeHTTP(w, r)
		case CreateProcedure:
			create.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func serve(
	ctx context.Context,
	msg *structpb.Struct,
	call func(context.Context, *rdf.Descriptor) (*rdf.ResultSet, error),
) (*connect.Response[structpb.Struct], error) {
	var desc rdf.Descriptor
	if err := fromStruct(msg, &desc); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	rs, err := call(ctx, &desc)
	if err != nil {
		return nil, toConnectError(err)
	}

	out, err := toStruct(rs)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidDescriptor):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, store.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fromConnectError restores store sentinels from Connect status codes so
// callers can match remote failures with errors.Is.
func fromConnectError(err error) error {
	var sentinel error
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument:
		sentinel = store.ErrInvalidDescriptor
	case connect.CodeAlreadyExists:
		sentinel = store.ErrAlreadyExists
	case connect.CodeNotFound:
		sentinel = store.ErrNotFound
	case connect.CodeDeadlineExceeded:
		sentinel = context.DeadlineExceeded
	case connect.CodeCanceled:
		sentinel = context.Canceled
	default:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Client is a store.Storage backed by a remote storage service.
type Client struct {
	search *connect.Client[structpb.Struct, structpb.Struct]
	create *connect.Client[structpb.Struct, structpb.Struct]
}

// NewClient creates a client for the storage service at baseURL
// (e.g., "http://localhost:8081").
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		search: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+SearchProcedure, opts...),
		create: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+CreateProcedure, opts...),
	}
}

// Search implements store.Storage.
func (c *Client) Search(ctx context.Context, pattern *rdf.Descriptor) (*rdf.ResultSet, error) {
	return c.call(ctx, c.search, pattern)
}

// Create implements store.Storage.
func (c *Client) Create(ctx context.Context, desc *rdf.Descriptor) (*rdf.ResultSet, error) {
	return c.call(ctx, c.create, desc)
}

func (c *Client) call(
	ctx context.Context,
	client *connect.Client[structpb.Struct, structpb.Struct],
	desc *rdf.Descriptor,
) (*rdf.ResultSet, error) {
	if desc == nil {
		return nil, store.Validate(desc)
	}

	msg, err := toStruct(desc)
	if err != nil {
		return nil, err
	}

	resp, err := client.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, fromConnectError(err)
	}

	var rs rdf.ResultSet
	if err := fromStruct(resp.Msg, &rs); err != nil {
		return nil, err
	}
	if rs.Results == nil {
		rs.Results = []rdf.Result{}
	}
	return &rs, nil
}
