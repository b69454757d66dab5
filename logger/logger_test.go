package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/stagehand/logger"
)

var _ = Describe("Logger", func() {
	var (
		log       *logger.LoggerImpl
		logOutput *bytes.Buffer
	)

	decode := func() map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(logOutput.Bytes(), &actual)).To(Succeed())
		return actual
	}

	BeforeEach(func() {
		log = logger.NewLogger("test-service", "debug", true)
		logOutput = bytes.NewBufferString("")
		log.SetOutput(logOutput)
	})

	It("Should have `test-service` as service name", func() {
		log.Info("Testing")
		Expect(decode()["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		log.Info("Testing")
		Expect(decode()["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		log.Warn("Testing")
		Expect(decode()["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		log.Error("Testing")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should log critical at error level without exiting", func() {
		log.Critical("bucket not configured")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["severity"]).To(Equal("critical"))
		Expect(actual["msg"]).To(Equal("bucket not configured"))
	})

	It("Should carry fields added with WithField", func() {
		log.WithField("runId", "abc123").Info("Testing")
		actual := decode()
		Expect(actual["runId"]).To(Equal("abc123"))
		Expect(actual["service"]).To(Equal("test-service"))
	})

	It("Should have `Testing` as msg", func() {
		log.Info("Testing")
		Expect(decode()["msg"]).To(Equal("Testing"))
	})
})
