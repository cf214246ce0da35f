package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/ports/storage"
)

var usuariosColumns = columnSet(
	usuarios.ColNombre,
	usuarios.ColApellidoPaterno,
	usuarios.ColApellidoMaterno,
	usuarios.ColNombreUsuario,
	usuarios.ColCorreo,
	usuarios.ColPasswordHash,
	usuarios.ColTipoUsuario,
	usuarios.ColClaveDeRumiantes,
	usuarios.ColVigenciaInicio,
	usuarios.ColVigenciaFin,
	usuarios.ColActivo,
	usuarios.ColFechaActualizacion,
)

const usuarioSelect = `
	SELECT
		u.id_usuario, u.nombre, u.apellido_paterno, u.apellido_materno,
		u.nombre_usuario, u.correo, u.password_hash, u.tipo_usuario,
		COALESCE(t.nombre_tipo, ''), u.clave_de_rumiantes,
		u.vigencia_inicio, u.vigencia_fin, u.activo,
		u.fecha_creacion, u.fecha_actualizacion
	FROM usuarios u
	LEFT JOIN tipos_usuario t ON t.id_tipo = u.tipo_usuario`

type UsuariosRepo struct {
	db *sql.DB
}

func NewUsuariosRepo(db *sql.DB) *UsuariosRepo {
	return &UsuariosRepo{db: db}
}

func scanUsuario(row interface{ Scan(...any) error }) (usuarios.Usuario, error) {
	var u usuarios.Usuario
	err := row.Scan(
		&u.ID,
		&u.Nombre,
		&u.ApellidoPaterno,
		&u.ApellidoMaterno,
		&u.NombreUsuario,
		&u.Correo,
		&u.PasswordHash,
		&u.TipoUsuario,
		&u.NombreTipo,
		&u.ClaveDeRumiantes,
		&u.VigenciaInicio,
		&u.VigenciaFin,
		&u.Activo,
		&u.FechaCreacion,
		&u.FechaActualizacion,
	)
	return u, err
}

func (r *UsuariosRepo) Create(ctx context.Context, u usuarios.Usuario) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO usuarios (
			nombre, apellido_paterno, apellido_materno, nombre_usuario, correo,
			password_hash, tipo_usuario, clave_de_rumiantes,
			vigencia_inicio, vigencia_fin, activo, fecha_creacion
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id_usuario
	`,
		u.Nombre,
		u.ApellidoPaterno,
		u.ApellidoMaterno,
		u.NombreUsuario,
		u.Correo,
		u.PasswordHash,
		u.TipoUsuario,
		u.ClaveDeRumiantes,
		u.VigenciaInicio,
		u.VigenciaFin,
		u.Activo,
		u.FechaCreacion,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *UsuariosRepo) GetByID(ctx context.Context, id int64) (usuarios.Usuario, error) {
	u, err := scanUsuario(conn(ctx, r.db).QueryRowContext(ctx, usuarioSelect+` WHERE u.id_usuario = $1`, id))
	if err != nil {
		return usuarios.Usuario{}, translate(err)
	}
	return u, nil
}

func (r *UsuariosRepo) GetByNombreUsuario(ctx context.Context, nombreUsuario string) (usuarios.Usuario, error) {
	u, err := scanUsuario(conn(ctx, r.db).QueryRowContext(ctx, usuarioSelect+` WHERE u.nombre_usuario = $1`, nombreUsuario))
	if err != nil {
		return usuarios.Usuario{}, translate(err)
	}
	return u, nil
}

func (r *UsuariosRepo) List(ctx context.Context, f usuarios.ListFilter) ([]usuarios.Usuario, error) {
	var w filters
	if f.NombreUsuario != "" {
		w.contains("u.nombre_usuario", f.NombreUsuario)
	}
	if f.Correo != "" {
		w.contains("u.correo", f.Correo)
	}
	if f.ClaveDeRumiantes != "" {
		w.contains("u.clave_de_rumiantes", f.ClaveDeRumiantes)
	}
	if f.TipoUsuario != nil {
		w.add("u.tipo_usuario = $%d", *f.TipoUsuario)
	}
	if f.Activo != nil {
		w.add("u.activo = $%d", *f.Activo)
	}
	q, args := w.build(usuarioSelect, "u.id_usuario DESC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]usuarios.Usuario, 0)
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsuariosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "usuarios", "id_usuario", id, ch, usuariosColumns)
}

func (r *UsuariosRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "usuarios", "id_usuario", id)
}

var _ usuarios.Repository = (*UsuariosRepo)(nil)
