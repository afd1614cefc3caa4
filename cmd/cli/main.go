package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/netip"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/linkdata/rate"
	"github.com/linkdata/stubdns"
	"github.com/miekg/dns"
)

var flagCpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
var flagMemprofile = flag.String("memprofile", "", "write memory profile to `file`")
var flagResolver = flag.String("resolver", "", "named resolver provider, random pick if empty")
var flagServer = flag.String("server", "", "resolver endpoint as ip[:port], overrides -resolver")
var flagTimeout = flag.Int("timeout", 5, "individual query timeout in seconds")
var flagRatelimit = flag.Int("ratelimit", 0, "rate limit queries, 0 means no limit")
var flagCount = flag.Int("count", 1, "repeat count")
var flagSleep = flag.Int("sleep", 0, "sleep ms between repeats")
var flagReverse = flag.Bool("x", false, "reverse lookup, arguments are IP addresses")
var flagDebug = flag.Bool("debug", false, "print debug output")

func pickEndpoint(server, resolver string) (netip.AddrPort, error) {
	if server != "" {
		if addr, err := netip.ParseAddr(server); err == nil {
			return netip.AddrPortFrom(addr, 53), nil
		}
		return netip.ParseAddrPort(server)
	}
	return stubdns.PickResolver(resolver)
}

func printResponse(resp *stubdns.Response, err error) {
	if resp != nil {
		fmt.Println(resp.Msg)
		fmt.Printf(";; SERVER: %s (%d bytes)\n", resp.Server, len(resp.Raw))
	}
	if err != nil {
		fmt.Printf(";; ERROR: %v\n", err)
	}
}

func main() {
	flag.Parse()
	if *flagCpuprofile != "" {
		f, err := os.Create(*flagCpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		_ = pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	qtype := dns.TypeA
	names := []string{}
	for _, arg := range flag.Args() {
		if x, ok := dns.StringToType[strings.ToUpper(arg)]; ok && !*flagReverse {
			qtype = x
		} else {
			names = append(names, arg)
		}
	}

	if len(names) == 0 {
		fmt.Println("missing one or more names to query")
		return
	}

	ep, err := pickEndpoint(*flagServer, *flagResolver)
	if err != nil {
		log.Fatal(err)
	}

	maxrate := int32(*flagRatelimit) // #nosec G115
	var rateLimiter <-chan struct{}
	if maxrate > 0 {
		rateLimiter = rate.NewTicker(nil, &maxrate).C
	}

	client := stubdns.NewWithOptions(nil, ep, rateLimiter)
	client.Timeout = time.Second * time.Duration(*flagTimeout)
	if *flagDebug {
		client.DefaultLogWriter = os.Stderr
	}

	ctx := context.Background()

	for i := 0; i < *flagCount; i++ {
		if i > 0 && *flagSleep > 0 {
			time.Sleep(time.Millisecond * time.Duration(*flagSleep))
		}
		for _, name := range names {
			if *flagReverse {
				addr, err := netip.ParseAddr(name)
				if err != nil {
					fmt.Printf(";; ERROR: %v\n", err)
					continue
				}
				if target, err := client.Reverse(ctx, addr); err == nil {
					fmt.Printf("%s name = %s\n", name, target)
				} else {
					fmt.Printf(";; ERROR: %v\n", err)
				}
				continue
			}
			resp, err := client.Resolve(ctx, name, qtype)
			printResponse(resp, err)
		}
	}

	if *flagMemprofile != "" {
		f, err := os.Create(*flagMemprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
