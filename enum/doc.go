/*
Package enum implements the concurrent subdomain enumeration pipeline.

	             +-------+        +---------+
	candidates-->| queue |-->(n)->| workers |-->SharedReport-->Summary
	             +-------+        +----+----+
	                                   |
	                                   +-->Tracker-->ProgressSink

An [Enumerator] first resolves the target domain's own addresses using a
dedicated resolver connection. It then starts a fixed number of workers, each
exclusively owning its own resolver connection, and finally feeds the FQDNs of
all candidates into the work queue in their original order. Closing the queue
is the only shutdown signal for the workers. [Enumerator.Run] returns only
after all workers have finished.

Workers add subdomains resolving to at least one address to the shared
[SharedReport]; the order of the subdomains thus reflects the order in which the
workers finished their resolutions and is not deterministic. Progress is
tracked by a [Tracker] independent of the resolution outcome.

# Acknowledgements

Under its hood, [Enumerator] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package enum
