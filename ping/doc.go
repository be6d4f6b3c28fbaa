/*
Package ping implements an ICMP(v4/v6)-based IP address (in)validator.

A [Prober] pings a single address at a time and returns its [Verdict]: the
final [types.Quality] of the address, either [types.Verified] or
[types.Invalid]. Probers are safe for concurrent use, so callers bring their
own goroutine pool.

Probers can optionally operate from inside a different network namespace.

# Acknowledgements

Under its hood, [Prober] leverages [go-ping/ping] for the actual pinging.

[go-ping/ping]: https://github.com/go-ping/ping
*/
package ping
