/*
Package resolver implements a minimalist DNS address resolver client on top of
[miekg/dns]. Each [Client] owns exactly one DNS client connection to the
configured DNS resolver; it is meant to be owned by a single worker for the
worker's whole lifetime, so no locking is required on the transport.

Resolving a name issues one query per configured record type (A, and
optionally AAAA) without any retries and classifies the result into an
[Outcome]: [Resolved], [NotFound], [Timeout], or [QueryError].

Usage

	dialer := resolver.New("8.8.8.8:53", resolver.WithTimeout(time.Second))
	clnt, err := dialer.Dial(ctx)
	if err != nil {
	    // ...
	}
	defer clnt.Close()
	res := clnt.Resolve(ctx, "www.example.com")

The [Resolver] and [Dialer] interfaces allow substituting stub resolvers, for
instance in tests.

[miekg/dns]: https://github.com/miekg/dns
*/
package resolver
