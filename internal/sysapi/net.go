package sysapi

import (
	"bufio"
	"net"
	"strconv"
	"strings"

	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// socketClassValue is set by buildSysNamespace once the Socket class is built, so
// ServerSocket.accept can stamp an accepted connection with the same
// descriptor a `new Socket(...)` instance carries.
var socketClassValue *runtime.SysClassValue

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func trimNewline(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}

// hostSocket is the Native payload backing a Socket instance: a live TCP
// connection plus a buffered reader, since read_line needs to peek past
// whatever net.Conn.Read happened to return without losing bytes.
type hostSocket struct {
	conn   net.Conn
	reader *bufio.Reader
}

func asHostSocket(receiver runtime.Value, pos token.Position) (*hostSocket, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "Socket method called without a Socket receiver")
	}
	s, ok := obj.Native.(*hostSocket)
	if !ok {
		return nil, diag.Systemf(pos, "Socket instance missing its native connection")
	}
	return s, nil
}

func buildSocketClass() *bridge.ClassBuilder {
	return bridge.NewClass("Socket").
		Constructor(2, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			host, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			port, err := args[1].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			conn, dialErr := net.Dial("tcp", net.JoinHostPort(host, itoa(port)))
			if dialErr != nil {
				return nil, nil, diag.Runtimef(pos, "Socket: connect failed: %v", dialErr)
			}
			receiver.(*runtime.SysObjectValue).Native = &hostSocket{conn: conn, reader: bufio.NewReader(conn)}
			return nil, nil, nil
		}).
		Method("write", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := asHostSocket(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			text, err := args[0].ToString()
			if err != nil {
				return nil, nil, err
			}
			if _, writeErr := s.conn.Write([]byte(text)); writeErr != nil {
				return nil, nil, diag.Runtimef(pos, "Socket.write: %v", writeErr)
			}
			return receiver, nil, nil
		}).
		Method("read_line", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := asHostSocket(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			line, readErr := s.reader.ReadString('\n')
			if readErr != nil && line == "" {
				return nil, nil, diag.Runtimef(pos, "Socket.read_line: %v", readErr)
			}
			return runtime.NewString(trimNewline(line)), nil, nil
		}).
		Method("close", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := asHostSocket(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			_ = s.conn.Close()
			return receiver, nil, nil
		})
}

// hostServerSocket is the Native payload backing a ServerSocket instance.
type hostServerSocket struct {
	listener net.Listener
}

func asHostServerSocket(receiver runtime.Value, pos token.Position) (*hostServerSocket, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "ServerSocket method called without a ServerSocket receiver")
	}
	s, ok := obj.Native.(*hostServerSocket)
	if !ok {
		return nil, diag.Systemf(pos, "ServerSocket instance missing its native listener")
	}
	return s, nil
}

func buildServerSocketClass() *bridge.ClassBuilder {
	return bridge.NewClass("ServerSocket").
		Constructor(1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			port, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			listener, listenErr := net.Listen("tcp", net.JoinHostPort("", itoa(port)))
			if listenErr != nil {
				return nil, nil, diag.Runtimef(pos, "ServerSocket: listen failed: %v", listenErr)
			}
			receiver.(*runtime.SysObjectValue).Native = &hostServerSocket{listener: listener}
			return nil, nil, nil
		}).
		Method("accept", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := asHostServerSocket(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			conn, acceptErr := s.listener.Accept()
			if acceptErr != nil {
				return nil, nil, diag.Runtimef(pos, "ServerSocket.accept: %v", acceptErr)
			}
			obj := &runtime.SysObjectValue{
				Base:       runtime.Base{TypeName: "object of Socket"},
				Descriptor: socketClassValue.Descriptor,
				Native:     &hostSocket{conn: conn, reader: bufio.NewReader(conn)},
			}
			return obj, nil, nil
		}).
		Method("close", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := asHostServerSocket(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			_ = s.listener.Close()
			return receiver, nil, nil
		})
}
