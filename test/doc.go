/*
Package test provides testing helpers, most notably a loopback [DNSServer]
answering from a fixed zone, with optional silenced and failing names.
*/
package test
