// Package qusb reads console memory from a QUsb2Snes websocket server.
//
// A Client speaks the request/response protocol: JSON text requests with an
// Opcode, a Space and Operands; JSON text replies carrying Results; raw
// binary replies for GetAddress. A Poller owns one Client at a time, fetches
// the tracked regions at a fixed interval and hands each capture to the
// engine as a snes.Reading. Failed requests drop the connection and the
// Poller redials until its context is cancelled.
package qusb
