package mud

import (
	"log"
	"net"
)

// ListenAndServe accepts line-based TCP connections and runs one
// session per connection until the listener fails.
func (w *World) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("MUD listening on %s", addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go newSession(w, conn).run()
	}
}
