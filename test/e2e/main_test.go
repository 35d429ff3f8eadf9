package e2e

import (
	"fmt"
	"os"
	"testing"

	"github.com/fhuszti/stored-images-ms-go/test/testutil"
)

var redisAddr string

func TestMain(m *testing.M) {
	code := func() int {
		ci, err := testutil.StartMariaDBContainer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start MariaDB: %v\n", err)
			return 1
		}
		defer ci.Cleanup()

		if err := os.Setenv("TEST_DB_DSN", ci.DSN); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set TEST_DB_DSN: %v\n", err)
			return 1
		}

		rc, err := testutil.StartRedisContainer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start Redis: %v\n", err)
			return 1
		}
		defer rc.Cleanup()
		redisAddr = rc.Addr

		return m.Run()
	}()

	os.Exit(code)
}
