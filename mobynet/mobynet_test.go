// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// fakeMoby answers container inspections from a fixed set of containers; all
// other container API methods are left unimplemented.
type fakeMoby struct {
	client.ContainerAPIClient
	cntrs map[string]types.ContainerJSON
}

func (m *fakeMoby) ContainerInspect(ctx context.Context, nameOrID string) (types.ContainerJSON, error) {
	cntr, ok := m.cntrs[nameOrID]
	if !ok {
		return types.ContainerJSON{}, errors.New("no such container")
	}
	return cntr, nil
}

func container(pid int) types.ContainerJSON {
	return types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{
			State: &types.ContainerState{Pid: pid},
		},
	}
}

var _ = Describe("container network namespaces", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	moby := &fakeMoby{
		cntrs: map[string]types.ContainerJSON{
			"running": container(42),
			"stopped": container(0),
			"broken":  {},
		},
	}

	It("references a running container's network namespace", func(ctx context.Context) {
		Expect(NetworkNamespace(ctx, moby, "running")).To(Equal("/proc/42/ns/net"))
	})

	It("rejects stopped and unknown containers", func(ctx context.Context) {
		Expect(NetworkNamespace(ctx, moby, "stopped")).Error().To(MatchError(ContainSubstring("not running")))
		Expect(NetworkNamespace(ctx, moby, "broken")).Error().To(MatchError(ContainSubstring("not running")))
		Expect(NetworkNamespace(ctx, moby, "nada")).Error().To(MatchError(ContainSubstring("cannot inspect")))
	})

	It("inspects a real container", NodeTimeout(30*time.Second), func(ctx context.Context) {
		if _, err := os.Stat("/var/run/docker.sock"); err != nil {
			Skip("needs Docker")
		}
		cln := Successful(NewClient(""))
		defer cln.Close()
		Expect(NetworkNamespace(ctx, cln, "subdig-nada-nothing-niente")).Error().To(HaveOccurred())
	})

})
