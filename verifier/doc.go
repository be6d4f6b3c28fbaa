/*
Package verifier implements verifying the addresses of an enumeration report,
avoiding expensive duplicate address verifications for addresses shared by
multiple subdomains.

Each distinct address is probed once by a [ping.Prober], with a bounded
number of probes in flight.
*/
package verifier
