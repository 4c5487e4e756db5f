package awsclient

type Option func(c *options)

// Endpoint overrides the service endpoint, e.g. for localstack.
func Endpoint(url string) Option {
	return func(c *options) {
		c.endpoint = url
	}
}

// StaticCredentials replaces the default credential chain.
func StaticCredentials(accessKey, secretKey string) Option {
	return func(c *options) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}
