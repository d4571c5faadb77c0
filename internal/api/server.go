package api

import (
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/FigmentBoy/MuseScore/internal/catalog"
)

var log = commonlog.GetLogger("mscx.api")

var activeConnections = 0
var mu sync.Mutex

// Serve runs the JSON-RPC server on addr until the listener fails.
func Serve(addr string, store *catalog.Store) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	defer listener.Close()

	log.Noticef("catalog server listening on %s", listener.Addr())
	return ServeListener(listener, store)
}

// ServeListener accepts connections until the listener is closed and
// serves each one with its own JSON-RPC codec.
func ServeListener(listener net.Listener, store *catalog.Store) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Errorf("failed to accept connection: %v", err)
			continue
		}

		mu.Lock()
		activeConnections++
		mu.Unlock()

		go serveConn(conn, store)
	}
}

func serveConn(conn net.Conn, store *catalog.Store) {
	defer func() {
		conn.Close()
		mu.Lock()
		activeConnections--
		if activeConnections == 0 {
			log.Debugf("all clients have disconnected")
		}
		mu.Unlock()
	}()

	server := rpc.NewServer()
	if err := server.RegisterName("Catalog", NewCatalog(store)); err != nil {
		log.Errorf("failed to register catalog service: %v", err)
		return
	}

	server.ServeCodec(jsonrpc.NewServerCodec(conn))
}
