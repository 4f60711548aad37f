package rpc

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"
)

type Client struct {
	*jsonrpc2.Conn

	// HandleFunc receives the requests and notifications sent by the
	// other side. They are dropped when it is nil.
	HandleFunc HandlerFunc
}

func NewClient(ctx context.Context, stream io.ReadWriteCloser, codec jsonrpc2.ObjectCodec, h HandlerFunc) *Client {
	client := &Client{HandleFunc: h}
	client.Conn = jsonrpc2.NewConn(
		ctx,
		jsonrpc2.NewBufferedStream(stream, codec),
		jsonrpc2.AsyncHandler(client),
	)
	return client
}

func (c *Client) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if c.HandleFunc != nil {
		c.HandleFunc(ctx, conn, req)
	}
}

func (c *Client) Call(method string, payload any, result any) error {
	return c.Conn.Call(context.Background(), method, payload, result)
}

func (c *Client) Notify(method string, payload any) error {
	return c.Conn.Notify(context.Background(), method, payload)
}
