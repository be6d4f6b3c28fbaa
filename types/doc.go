/*
Package types defines subdig's information model, which is rather simple: a
[RootDomain] report with its own [Address] list and the discovered
[Subdomain] entries, each with their own addresses.

The model directly maps onto the JSON report:

	{
	  "name": "example.com",
	  "addresses": [ { "ip": "93.184.215.14" } ],
	  "subdomains": [
	    { "name": "www.example.com", "addresses": [ { "ip": "93.184.215.14" } ] }
	  ]
	}

Addresses optionally carry a verification [Quality]; as unverified addresses
have the zero quality, the "quality" field only shows up in reports when
verification was requested.

Please note that the types in this package are plain values without any
locking; concurrent updates of a RootDomain while enumerating are guarded by
its owner.
*/
package types
