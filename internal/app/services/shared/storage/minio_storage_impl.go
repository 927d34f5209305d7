package storage

import (
	"bytes"
	"context"
	"sync"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	syncReportStorageInstance contracts.SyncReportStorage
	onceSyncReportStorage     sync.Once
)

type minioSyncReportStorage struct {
	MinioClient *minio.Client
	BucketName  string
	Log         *zap.Logger
}

func NewMinioSyncReportStorage(minioClient *minio.Client, bucketName string, logger *zap.Logger) contracts.SyncReportStorage {
	onceSyncReportStorage.Do(func() {
		instance := &minioSyncReportStorage{
			MinioClient: minioClient,
			BucketName:  bucketName,
			Log:         logger,
		}
		syncReportStorageInstance = instance
	})
	return syncReportStorageInstance
}

func (m *minioSyncReportStorage) ArchiveSyncReport(ctx context.Context, doctorID string, report []byte) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	objectName := utils.GenerateSyncReportObjectName(doctorID, time.Now())

	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(report),
		int64(len(report)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		m.Log.Error("minioSyncReportStorage.ArchiveSyncReport error creating object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	m.Log.Info("minioSyncReportStorage.ArchiveSyncReport succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String("object_name", objectName),
	)
	return objectName, nil
}
