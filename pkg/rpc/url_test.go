package rpc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/xo-harness/pkg/rpc"
)

var _ = Describe("ParseURL", func() {
	DescribeTable("should map a server address to the API websocket",
		func(address, expected string) {
			u, err := rpc.ParseURL(address)
			Expect(err).ToNot(HaveOccurred())
			Expect(u.String()).To(Equal(expected))
		},
		Entry("host and port", "localhost:9000", "ws://localhost:9000/api/"),
		Entry("http", "http://localhost:9000", "ws://localhost:9000/api/"),
		Entry("https", "https://xo.example.org", "wss://xo.example.org/api/"),
		Entry("ws with root path", "ws://10.0.0.1:80/", "ws://10.0.0.1:80/api/"),
		Entry("explicit path", "wss://xo.example.org/custom/", "wss://xo.example.org/custom/"),
	)

	DescribeTable("should reject invalid addresses",
		func(address string) {
			_, err := rpc.ParseURL(address)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty", ""),
		Entry("unsupported scheme", "ftp://localhost:9000"),
		Entry("missing host", "http://"),
	)
})
