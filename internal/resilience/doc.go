// Package resilience groups the fault tolerance helpers used around the
// chatbot's outbound calls to the news provider and the entity extractor.
//
// Subpackages:
//   - circuitbreaker: stops calling a collaborator that keeps failing
//   - retry: exponential backoff with jitter for transient errors
//   - ratelimit: client side request pacing
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.NewsAPIConfig())
//	articles, err := circuitbreaker.Execute(cb, func() ([]entity.Article, error) {
//	    var out []entity.Article
//	    err := retry.WithBackoff(ctx, retry.NewsLookupConfig(2), func() error {
//	        var err error
//	        out, err = fetch(ctx)
//	        return err
//	    })
//	    return out, err
//	})
package resilience
