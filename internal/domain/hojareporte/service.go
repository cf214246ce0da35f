package hojareporte

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/platform/normalize"
	"sistpec-api/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = apperr.NotFound("Hoja de reporte no encontrada")
	ErrFileNotFound   = apperr.NotFound("Archivo no encontrado")
	errUsuario        = apperr.NotFound("El usuario especificado no existe")
	errCaso           = apperr.NotFound("El caso especificado no existe")
	errUsuarioReq     = apperr.Validation("El id_usuario es requerido")
	errContenidoTipo  = apperr.Validation("El contenido debe ser un objeto JSON")
	errPeriodo        = apperr.Validation("El periodo_fin no puede ser anterior al periodo_inicio")
	errNoChanges      = apperr.Validation("No hay campos para actualizar")
	errArchivoVacio   = apperr.Validation("El archivo está vacío")
	errContenidoRoto  = apperr.Integrity("El contenido de la hoja de reporte está dañado")
	errStoreNoArchivo = errors.New("hojareporte: sin almacenamiento de archivos")
)

// KeyPrefix agrupa los adjuntos en el almacenamiento.
const KeyPrefix = "hoja-reporte"

type Service struct {
	repo  Repository
	files FileStore
	now   func() time.Time
	newID func() string
}

// NewService recibe el almacenamiento de adjuntos; puede ser nil si no se
// suben archivos (los endpoints de archivo responden 500).
func NewService(repo Repository, files FileStore) *Service {
	return &Service{
		repo:  repo,
		files: files,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	Folio         *string
	IDCaso        *int64
	PeriodoInicio *dates.Date
	PeriodoFin    *dates.Date
	Contenido     json.RawMessage
	Archivo       *string
	IDUsuario     int64
}

type UpdateInput struct {
	Folio         *string
	IDCaso        *int64
	PeriodoInicio *dates.Date
	PeriodoFin    *dates.Date
	Contenido     json.RawMessage // nil = no tocar; "null" = borrar
	Archivo       *string
	IDUsuario     *int64
}

// contenido acepta un objeto JSON o null. Devuelve nil para null/ausente.
func contenido(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var obj map[string]any
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &obj) != nil {
		return nil, errContenidoTipo
	}
	return append(json.RawMessage(nil), trimmed...), nil
}

func checkPeriodo(inicio, fin *dates.Date) error {
	if inicio != nil && fin != nil && fin.Before(*inicio) {
		return errPeriodo
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	if in.IDUsuario <= 0 {
		return 0, errUsuarioReq
	}
	if err := checkPeriodo(in.PeriodoInicio, in.PeriodoFin); err != nil {
		return 0, err
	}
	c, err := contenido(in.Contenido)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, Hoja{
		Folio:         normalize.Optional(in.Folio),
		IDCaso:        in.IDCaso,
		PeriodoInicio: in.PeriodoInicio,
		PeriodoFin:    in.PeriodoFin,
		Contenido:     c,
		Archivo:       normalize.Optional(in.Archivo),
		Fecha:         s.now(),
		IDUsuario:     in.IDUsuario,
	})
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

// decode convierte el contenido guardado. Un valor que no es objeto JSON es
// un error de integridad, nunca un objeto vacío.
func decode(v View) (Reporte, error) {
	r := Reporte{View: v}
	if len(v.Contenido) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(v.Contenido, &r.Contenido); err != nil {
		return Reporte{}, fmt.Errorf("hoja_reporte %d: %w: %w", v.ID, errContenidoRoto, err)
	}
	if r.Contenido == nil {
		// "null" guardado tal cual
		return Reporte{View: v}, nil
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Reporte, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Reporte{}, mapErr(err)
	}
	return decode(v)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Reporte, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Reporte, 0, len(items))
	for _, v := range items {
		r, err := decode(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	if v, sent := normalize.Cleared(in.Folio); sent {
		ch.Set(ColFolio, v)
	}
	if in.IDCaso != nil {
		ch.Set(ColIDCaso, *in.IDCaso)
	}
	if in.PeriodoInicio != nil {
		ch.Set(ColPeriodoInicio, *in.PeriodoInicio)
	}
	if in.PeriodoFin != nil {
		ch.Set(ColPeriodoFin, *in.PeriodoFin)
	}
	if in.Contenido != nil {
		c, err := contenido(in.Contenido)
		if err != nil {
			return err
		}
		ch.Set(ColContenido, c)
	}
	if v, sent := normalize.Cleared(in.Archivo); sent {
		ch.Set(ColArchivo, v)
	}
	if in.IDUsuario != nil {
		ch.Set(ColIDUsuario, *in.IDUsuario)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapErr(err)
	}
	if ch.Len() == 0 {
		return errNoChanges
	}

	inicio, fin := current.PeriodoInicio, current.PeriodoFin
	if in.PeriodoInicio != nil {
		inicio = in.PeriodoInicio
	}
	if in.PeriodoFin != nil {
		fin = in.PeriodoFin
	}
	if err := checkPeriodo(inicio, fin); err != nil {
		return err
	}
	ch.Set(ColUpdatedAt, s.now())

	return mapErr(s.repo.Update(ctx, id, ch))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapErr(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapErr(err)
	}
	if v.Archivo != nil {
		s.removeFile(ctx, *v.Archivo)
	}
	return nil
}

// FileKey arma la llave hoja-reporte/<id>/<uuid><ext>.
func (s *Service) FileKey(id int64, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%d/%s%s", KeyPrefix, id, s.newID(), ext)
}

// AttachFile guarda el adjunto y apunta la hoja a la nueva llave. El archivo
// anterior, si había, se elimina del almacenamiento.
func (s *Service) AttachFile(ctx context.Context, id int64, filename, contentType string, body io.Reader, size int64) (string, error) {
	if s.files == nil {
		return "", errStoreNoArchivo
	}
	if size <= 0 {
		return "", errArchivoVacio
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", mapErr(err)
	}

	key := s.FileKey(id, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.files.Put(ctx, key, contentType, body, size); err != nil {
		return "", fmt.Errorf("hoja_reporte %d: guardar archivo: %w", id, err)
	}

	var ch storage.Changes
	ch.Set(ColArchivo, &key)
	ch.Set(ColUpdatedAt, s.now())
	if err := s.repo.Update(ctx, id, ch); err != nil {
		s.removeFile(ctx, key)
		return "", mapErr(err)
	}

	if v.Archivo != nil && *v.Archivo != key {
		s.removeFile(ctx, *v.Archivo)
	}
	return key, nil
}

// OpenFile devuelve el adjunto de la hoja. El llamador cierra el reader.
func (s *Service) OpenFile(ctx context.Context, id int64) (io.ReadCloser, string, string, error) {
	if s.files == nil {
		return nil, "", "", errStoreNoArchivo
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", "", mapErr(err)
	}
	if v.Archivo == nil || *v.Archivo == "" {
		return nil, "", "", ErrFileNotFound
	}
	rc, ct, err := s.files.Get(ctx, *v.Archivo)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", "", ErrFileNotFound
	}
	if err != nil {
		return nil, "", "", err
	}
	return rc, ct, filepath.Base(*v.Archivo), nil
}

func (s *Service) removeFile(ctx context.Context, key string) {
	if s.files == nil || !strings.HasPrefix(key, KeyPrefix+"/") {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("no se pudo borrar el adjunto", map[string]any{
			"key":   key,
			"error": err,
		})
	}
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrReference):
		switch c, _ := storage.Constraint(err); c {
		case ConstraintUsuario:
			return errUsuario
		case ConstraintCaso:
			return errCaso
		}
	}
	return err
}
