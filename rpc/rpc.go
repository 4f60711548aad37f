package rpc

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/sourcegraph/jsonrpc2"
)

type HandlerFunc func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request)

func (h HandlerFunc) Handle(ctx context.Context, c *jsonrpc2.Conn, r *jsonrpc2.Request) {
	h(ctx, c, r)
}

// CustomStream joins a separate reader and writer (such as stdin and
// stdout) into a single stream.
type CustomStream struct {
	io.ReadCloser
	io.WriteCloser
}

func (conn *CustomStream) Read(p []byte) (n int, err error) {
	return conn.ReadCloser.Read(p)
}

func (conn *CustomStream) Write(p []byte) (n int, err error) {
	return conn.WriteCloser.Write(p)
}

func (conn *CustomStream) Close() error {
	if err := conn.ReadCloser.Close(); err != nil {
		return err
	} else if err := conn.WriteCloser.Close(); err != nil {
		return err
	}
	return nil
}

// HandlerFactory returns the handler for a newly accepted connection.
type HandlerFactory func() jsonrpc2.Handler

func StartServer(ctx context.Context, addr string, codec jsonrpc2.ObjectCodec, newHandler HandlerFactory) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return Serve(ctx, l, codec, newHandler)
}

// Serve accepts connections from l until ctx is done or the listener
// fails. Every connection gets its own handler; requests on a single
// connection are handled in the order they arrive.
func Serve(ctx context.Context, l net.Listener, codec jsonrpc2.ObjectCodec, newHandler HandlerFactory) error {
	defer l.Close()

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		go func() {
			cn := jsonrpc2.NewConn(
				ctx,
				jsonrpc2.NewBufferedStream(conn, codec),
				newHandler(),
			)
			defer cn.Close()

			select {
			case <-cn.DisconnectNotify():
			case <-ctx.Done():
			}
		}()
	}
}
