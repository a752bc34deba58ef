package sysapi

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/scriptlang/internal/runtime"
)

func TestSocketAndServerSocketLoopbackRoundTrip(t *testing.T) {
	socketClassValue = buildSocketClass().BuildValue()
	serverCls := buildServerSocketClass().BuildValue()

	server := newInstance(t, serverCls, runtime.NewInteger(0))
	tcpAddr := server.Native.(*hostServerSocket).listener.Addr().(*net.TCPAddr)

	accepted := make(chan *runtime.SysObjectValue, 1)
	go func() {
		conn := callMethod(t, server, "accept").(*runtime.SysObjectValue)
		accepted <- conn
	}()

	client := newInstance(t, socketClassValue, runtime.NewString("127.0.0.1"), runtime.NewInteger(int64(tcpAddr.Port)))
	callMethod(t, client, "write", runtime.NewString("ping\n"))

	var serverSide *runtime.SysObjectValue
	select {
	case serverSide = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}

	line := callMethod(t, serverSide, "read_line")
	assert.Equal(t, "ping", strVal(t, line))

	callMethod(t, serverSide, "write", runtime.NewString("pong\n"))
	reply := callMethod(t, client, "read_line")
	assert.Equal(t, "pong", strVal(t, reply))

	callMethod(t, client, "close")
	callMethod(t, serverSide, "close")
	callMethod(t, server, "close")
}
