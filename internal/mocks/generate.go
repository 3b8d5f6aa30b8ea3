// Package mocks provides gomock implementations of the service and repository ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockFAQRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(faq, nil)
package mocks

// Repository ports from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=repository_mock.go github.com/officeplus/faq-api/internal/core FAQRepository,TagRepository,FeedbackRepository,SearchLogRepository,StatusRepository

// Session ports from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_ports_mock.go github.com/officeplus/faq-api/internal/ports SessionStore,PoolRefresher,SessionValidator
