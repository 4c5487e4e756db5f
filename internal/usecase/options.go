package usecase

import "time"

type Option func(uc *ProductUseCase)

// Clock replaces time.Now.
func Clock(now func() time.Time) Option {
	return func(uc *ProductUseCase) {
		uc.now = now
	}
}

// IDGenerator replaces uuid.NewString.
func IDGenerator(newID func() string) Option {
	return func(uc *ProductUseCase) {
		uc.newID = newID
	}
}

// UploadURLTTL sets the validity of issued upload URLs.
func UploadURLTTL(ttl time.Duration) Option {
	return func(uc *ProductUseCase) {
		if ttl > 0 {
			uc.uploadURLTTL = ttl
		}
	}
}

// StaleAfter sets the age after which imageless records are removed.
func StaleAfter(d time.Duration) Option {
	return func(uc *ProductUseCase) {
		if d > 0 {
			uc.staleAfter = d
		}
	}
}

// MaxDeletes caps the records removed by one cleanup run. Zero means no cap.
// Records that fail to delete do not count against the cap.
func MaxDeletes(n int) Option {
	return func(uc *ProductUseCase) {
		if n >= 0 {
			uc.maxDeletes = n
		}
	}
}
