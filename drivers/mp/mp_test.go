package mp_test

import (
	"runtime"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fbplay/fbplay/drivers/mp"
	fbtesting "github.com/fbplay/fbplay/testing"
)

func TestMain(m *testing.M) { fbtesting.TestMain(m) }

var _ mp.Service = (*mp.Host)(nil)

func TestCount(t *testing.T) {
	n, err := mp.NewHost(mp.Options{}).Count()
	require.NoError(t, err)
	require.Equal(t, runtime.NumCPU(), n.Enabled)
	require.GreaterOrEqual(t, n.Total, n.Enabled)

	n, err = mp.NewHost(mp.Options{Processors: 5}).Count()
	require.NoError(t, err)
	require.Equal(t, 5, n.Enabled)
}

func TestStartupAllAPs(t *testing.T) {
	for _, pin := range []bool{false, true} {
		h := mp.NewHost(mp.Options{Processors: 4, Pin: pin})

		var mu sync.Mutex
		var ids, whoami []int
		var wg sync.WaitGroup
		wg.Add(3)
		err := h.StartupAllAPs(func(id int) {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			ids = append(ids, id)
			whoami = append(whoami, h.WhoAmI())
		})
		require.NoError(t, err)
		wg.Wait()

		slices.Sort(ids)
		require.Equal(t, []int{1, 2, 3}, ids)
		if runtime.GOOS == "linux" {
			slices.Sort(whoami)
			require.Equal(t, ids, whoami)
		}
		require.ErrorIs(t, h.StartupAllAPs(func(int) {}), mp.ErrStarted)
	}
}

func TestWhoAmIPrimary(t *testing.T) {
	h := mp.NewHost(mp.Options{})
	done := make(chan int)
	go func() {
		h.BindPrimary()
		defer runtime.UnlockOSThread()
		done <- h.WhoAmI()
	}()
	require.Zero(t, <-done)
}
