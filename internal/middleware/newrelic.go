package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicErrors reports errors attached to the request with c.Error to the
// New Relic transaction started by nrgin, and tags the transaction with the
// store driver serving it. It must be registered after nrgin.Middleware.
func NewRelicErrors(storeDriver string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		if txn == nil {
			return
		}

		txn.AddAttribute("store.driver", storeDriver)
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
